package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/captiveportal/portal-cms/internal/broadcast"
	"github.com/captiveportal/portal-cms/internal/editor"
	"github.com/captiveportal/portal-cms/pkg/logger"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	Out       string
	Reconnect time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print content updates as they happen",
		Long: `Subscribe to the portal's live update channel and print a line for every
content save. With --out the latest document is pulled to that file after
each update.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "file to refresh after every update")
	cmd.Flags().DurationVar(&opts.Reconnect, "reconnect", 3*time.Second, "delay before reconnecting (0 exits on disconnect)")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, rootOpts *RootOptions, opts *WatchOptions) error {
	c, err := rootOpts.client(ctx, false)
	if err != nil {
		return err
	}
	w, err := editor.NewWatcher(c.BaseURL(), c.Session())
	if err != nil {
		return wrapExit(ExitCommandError, "watch", err)
	}
	w.Reconnect = opts.Reconnect

	err = w.Run(ctx, func(evt broadcast.Event) {
		ts := time.UnixMilli(evt.Timestamp).Format(time.RFC3339)
		fmt.Fprintf(cmd.OutOrStdout(), "%s content updated by %s\n", ts, logger.Truncate(evt.SenderSessionID))
		if opts.Out == "" {
			return
		}
		doc, err := c.Fetch(ctx)
		if err != nil {
			logger.Errorf("refresh %s: %v", opts.Out, err)
			return
		}
		if err := writeDocument(opts.Out, cmd.OutOrStdout(), doc); err != nil {
			logger.Errorf("write %s: %v", opts.Out, err)
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return wrapExit(ExitCommandError, "watch", err)
}
