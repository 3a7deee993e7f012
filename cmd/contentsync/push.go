package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/captiveportal/portal-cms/internal/editor"
)

// PushOptions holds flags for the push command.
type PushOptions struct {
	Yes bool
}

// NewPushCommand creates the push command.
func NewPushCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PushOptions{}

	cmd := &cobra.Command{
		Use:   "push <file>",
		Short: "Upload an edited content document",
		Long: `Upload a content document previously fetched with pull.

If the server copy changed after the file's _lastModified, the conflicting
sections are listed and the push only proceeds after confirmation. Declining
rewrites the file with the server's copy. On success the file is updated with
the new stamp.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "overwrite newer server content without asking")
	return cmd
}

func runPush(cmd *cobra.Command, rootOpts *RootOptions, opts *PushOptions, path string) error {
	ctx := cmd.Context()
	doc, err := readDocument(path)
	if err != nil {
		return wrapExit(ExitCommandError, "read document", err)
	}
	c, err := rootOpts.client(ctx, true)
	if err != nil {
		return err
	}

	prompt := newTermPrompter(cmd.InOrStdin(), cmd.ErrOrStderr(), opts.Yes)
	agent := editor.NewAgent(c, prompt, editor.WithSession(c.Session()))
	defer agent.Close()
	if err := agent.Resume(ctx, doc, doc.LastModified); err != nil {
		return wrapExit(ExitCommandError, "resume", err)
	}

	res, err := agent.Save(ctx)
	switch {
	case errors.Is(err, editor.ErrSaveAborted):
		if werr := writeDocument(path, cmd.OutOrStdout(), agent.Working()); werr != nil {
			return wrapExit(ExitCommandError, "write "+path, werr)
		}
		return wrapExit(ExitFailure, "push declined", err)
	case errors.Is(err, editor.ErrSessionExpired):
		return wrapExit(ExitCommandError, "push", err)
	case errors.Is(err, editor.ErrConflict):
		return wrapExit(ExitFailure, "push rejected, pull again and reapply your edits", err)
	case err != nil:
		return wrapExit(ExitCommandError, "push", err)
	}
	if res == editor.SaveNoChanges {
		return nil
	}

	saved := agent.Working()
	saved.LastModified = agent.LastServerUpdate()
	if err := writeDocument(path, cmd.OutOrStdout(), saved); err != nil {
		return wrapExit(ExitCommandError, "write "+path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pushed %s (_lastModified=%d)\n", path, saved.LastModified)
	return nil
}
