package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPullCommand creates the pull command.
func NewPullCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull [file]",
		Short: "Download the content document",
		Long: `Download the current content document. The file keeps the server's
_lastModified stamp, which push uses as the baseline for conflict checks.
Writes to stdout when file is "-" or omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := "-"
			if len(args) == 1 {
				out = args[0]
			}
			c, err := rootOpts.client(cmd.Context(), false)
			if err != nil {
				return err
			}
			doc, err := c.Fetch(cmd.Context())
			if err != nil {
				return wrapExit(ExitCommandError, "fetch content", err)
			}
			if err := writeDocument(out, cmd.OutOrStdout(), doc); err != nil {
				return wrapExit(ExitCommandError, "write "+out, err)
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "pulled content (_lastModified=%d) to %s\n", doc.LastModified, out)
			}
			return nil
		},
	}
	return cmd
}
