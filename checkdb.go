package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/domain/auditlog"
	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/store"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// recentLogCount is how many audit entries check-db prints.
const recentLogCount = 5

const storeCommandTimeout = 30 * time.Second

var checkDBCmd = &cobra.Command{
	Use:   "check-db",
	Short: "Print task and audit log counts, all tasks and the most recent log entries",
	Args:  cobra.NoArgs,
	RunE:  runCheckDB,
}

var pingDBCmd = &cobra.Command{
	Use:   "ping-db",
	Short: "Verify that the configured store is reachable",
	Args:  cobra.NoArgs,
	RunE:  runPingDB,
}

func init() {
	rootCmd.AddCommand(checkDBCmd)
	rootCmd.AddCommand(pingDBCmd)
}

// openStore opens the configured backend once, without reconnect attempts.
func openStore(ctx context.Context) (store.Backend, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	open, err := store.NewOpener(cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	backend, err := open(ctx)
	if err != nil {
		return nil, nil, err
	}
	return backend, cfg, nil
}

func runCheckDB(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), storeCommandTimeout)
	defer cancel()

	backend, cfg, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer backend.Close(context.Background())

	fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s store\n", cfg.Store.Driver)
	return writeReport(ctx, cmd.OutOrStdout(), backend)
}

// writeReport prints every task newest first followed by the most recent
// audit entries.
func writeReport(ctx context.Context, w io.Writer, backend store.Backend) error {
	var (
		tasks     []*task.Task
		taskTotal int64
		entries   []*auditlog.Entry
		logTotal  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, taskTotal, err = backend.Tasks().List(gctx, task.ListFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		entries, logTotal, err = backend.Logs().List(gctx, 0, recentLogCount)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Number of tasks in database: %d\n", taskTotal)
	fmt.Fprintln(w, "\nTasks:")
	for _, t := range tasks {
		fmt.Fprintf(w, "- %s: %s\n", t.ID, t.Title)
		fmt.Fprintf(w, "  Description: %s\n", t.Description)
		fmt.Fprintf(w, "  Created: %s\n", t.CreatedAt.Format(time.RFC3339))
		fmt.Fprintln(w, "-------------------")
	}

	fmt.Fprintf(w, "\nNumber of audit logs in database: %d\n", logTotal)
	fmt.Fprintln(w, "\nRecent Logs:")
	for _, e := range entries {
		fmt.Fprintf(w, "- %s (%s)\n", e.Action, e.Timestamp.Local().Format(time.DateTime))
		fmt.Fprintf(w, "  Task ID: %s\n", e.TaskID)
		fmt.Fprintln(w, "-------------------")
	}
	return nil
}

func runPingDB(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), storeCommandTimeout)
	defer cancel()

	backend, cfg, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	defer backend.Close(context.Background())

	if err := backend.Ping(ctx); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s store connection successful\n", cfg.Store.Driver)
	return nil
}
