package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/captiveportal/portal-cms/internal/editor"
	"github.com/captiveportal/portal-cms/pkg/logger"
)

// Exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // save declined or rejected
	ExitCommandError = 2 // bad arguments, unreachable server, auth failure
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

func wrapExit(code int, msg string, err error) *ExitError {
	return &ExitError{Code: code, Message: msg, Err: err}
}

// GetExitCode returns ExitFailure for errors that carry no code.
func GetExitCode(err error) int {
	var e *ExitError
	if errors.As(err, &e) {
		return e.Code
	}
	return ExitFailure
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server   string
	Password string
	Session  string
	Verbose  bool
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// NewRootCommand creates the contentsync command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "contentsync",
		Short: "Sync the captive portal content document",
		Long: `Pull the portal content document to a file, edit it, and push it back.

Pushes check whether someone else saved since the file was pulled and ask
before overwriting their changes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			logger.Init(level)
			logger.SetFormat("console")
			logger.SetOutput(cmd.ErrOrStderr())
			if !strings.HasPrefix(opts.Server, "http://") && !strings.HasPrefix(opts.Server, "https://") {
				return wrapExit(ExitCommandError, "invalid --server", fmt.Errorf("%q is not an http(s) URL", opts.Server))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", envOr("PORTAL_URL", "http://localhost:3001"), "portal server URL")
	cmd.PersistentFlags().StringVar(&opts.Password, "password", os.Getenv("ADMIN_PASSWORD"), "admin password (defaults to $ADMIN_PASSWORD)")
	cmd.PersistentFlags().StringVar(&opts.Session, "session", os.Getenv("PORTAL_SESSION"), "reuse an existing session token instead of logging in")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewPullCommand(opts))
	cmd.AddCommand(NewPushCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// client returns an API client, logging in when requireAuth is set.
func (o *RootOptions) client(ctx context.Context, requireAuth bool) (*editor.HTTPClient, error) {
	c := editor.NewHTTPClient(o.Server, nil)
	if o.Session != "" {
		c.SetSession(o.Session)
		return c, nil
	}
	if !requireAuth {
		return c, nil
	}
	if o.Password == "" {
		return nil, wrapExit(ExitCommandError, "login", errors.New("no --password or $ADMIN_PASSWORD given"))
	}
	if _, err := c.Login(ctx, o.Password); err != nil {
		return nil, wrapExit(ExitCommandError, "login", err)
	}
	logger.Debugf("logged in as session %s", logger.Truncate(c.Session()))
	return c, nil
}
