package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for picgrab.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "picgrab",
		Short: "Follow links and download matching files",
		Long: `picgrab walks a link tree starting from one or more URLs.

Pages matching a follow pattern are scanned for more links, files matching
a download pattern are saved into a target directory. The frontier and the
visited set can be saved to disk so an interrupted run resumes where it
stopped.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewGrabCmd())
	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
