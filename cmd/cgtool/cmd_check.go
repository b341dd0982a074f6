package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ava12/bachcg/internal/check"
)

// checkCmd validates grammar files
var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Load and validate grammars",
	Long: `Loads compiled grammars or grammar definitions and reports format errors,
missing targets and terminal sets, ambiguous productions, and unreachable states.
Fails if any file has errors; unreachable states are warnings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

// watchCmd re-checks grammar files on change
var watchCmd = &cobra.Command{
	Use:   "watch <file>...",
	Short: "Check grammars each time they change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

// commandContext returns command context, which is nil unless the command is run with Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func checkOptions() check.Options {
	return check.Options{
		Shorthand: cfg.Shorthand,
		Workers:   cfg.Workers,
		Logger:    logger,
	}
}

func printReport(w io.Writer, r check.Report) {
	if r.Err != nil {
		fmt.Fprintf(w, "%s: %s\n", r.Path, r.Err)
		return
	}

	status := "ok"
	if !r.OK() {
		status = "FAILED"
	}
	fmt.Fprintf(w, "%s: %s, %d bytes, %d states, %d rules\n", r.Path, status, r.Bytes, r.States, r.Rules)
	for _, issue := range r.Issues {
		kind := "error"
		if issue.Warning {
			kind = "warning"
		}
		fmt.Fprintf(w, "  %s: %s\n", kind, issue.Message)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	reports, e := check.Files(commandContext(cmd), args, checkOptions())
	if e != nil {
		return e
	}

	failed := 0
	for _, r := range reports {
		printReport(cmd.OutOrStdout(), r)
		if !r.OK() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(reports))
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := check.WatchOptions{Options: checkOptions(), Debounce: cfg.GetDebounce()}
	return check.Watch(ctx, args, opts, func(r check.Report) {
		printReport(cmd.OutOrStdout(), r)
	})
}
