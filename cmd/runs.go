package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/plugopt/worhpgo/internal/trace"
	"github.com/spf13/cobra"
)

var (
	runsTraceDir  string
	keepLast      int
	olderThanDays int
	forceClean    bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage recorded solver runs",
	Long: `Manage solver runs recorded with --trace-dir, including listing,
deleting, and cleaning old runs.`,
}

var listRunsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recorded runs",
	Long:  `Display all recorded runs with problem, status, final objective, and sizes.`,
	RunE:  runListRuns,
}

var rmRunCmd = &cobra.Command{
	Use:   "rm [run-id]",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemoveRun,
}

var cleanRunsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean old runs",
	Long: `Delete old runs based on retention policy.
You can keep only the last N runs or delete runs older than N days.`,
	RunE: runCleanRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(listRunsCmd)
	runsCmd.AddCommand(rmRunCmd)
	runsCmd.AddCommand(cleanRunsCmd)

	runsCmd.PersistentFlags().StringVar(&runsTraceDir, "trace-dir", "./data", "Base directory of recorded runs")

	cleanRunsCmd.Flags().IntVar(&keepLast, "keep-last", 0, "Keep only the last N runs (0 = keep all)")
	cleanRunsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete runs older than N days (0 = no age limit)")
	cleanRunsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func runListRuns(cmd *cobra.Command, args []string) error {
	summaries, err := trace.ListRuns(runsTraceDir)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tPROBLEM\tSTATUS\tOBJECTIVE\tFEASIBLE\tFEVALS\tFINISHED\tSIZE")
	fmt.Fprintln(w, "------\t-------\t------\t---------\t--------\t------\t--------\t----")

	for _, summary := range summaries {
		size, err := getDirSize(trace.RunDir(runsTraceDir, summary.RunID))
		sizeStr := "unknown"
		if err == nil {
			sizeStr = formatBytes(size)
		}

		// Truncate run ID for display
		displayID := summary.RunID
		if len(displayID) > 12 {
			displayID = displayID[:12] + "..."
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%.6f\t%v\t%d\t%s\t%s\n",
			displayID,
			summary.Problem,
			summary.StatusText,
			summary.Objective,
			summary.Feasible,
			summary.Fevals,
			summary.EndTime.Format("2006-01-02 15:04:05"),
			sizeStr,
		)
	}

	w.Flush()

	fmt.Printf("\nTotal runs: %d\n", len(summaries))
	return nil
}

func runRemoveRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	if err := trace.DeleteRun(runsTraceDir, runID); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	fmt.Printf("Deleted run %s\n", runID)
	return nil
}

func runCleanRuns(cmd *cobra.Command, args []string) error {
	if keepLast == 0 && olderThanDays == 0 {
		return fmt.Errorf("must specify either --keep-last or --older-than")
	}

	summaries, err := trace.ListRuns(runsTraceDir)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No runs to clean.")
		return nil
	}

	toDelete := selectRunsForDeletion(summaries, keepLast, olderThanDays)

	if len(toDelete) == 0 {
		fmt.Println("No runs match deletion criteria.")
		return nil
	}

	fmt.Printf("Found %d run(s) to delete:\n", len(toDelete))
	for _, summary := range toDelete {
		displayID := summary.RunID
		if len(displayID) > 12 {
			displayID = displayID[:12] + "..."
		}
		fmt.Printf("  - %s (%s, %s)\n",
			displayID,
			summary.Problem,
			summary.EndTime.Format("2006-01-02 15:04:05"),
		)
	}

	// Ask for confirmation unless --force is set
	if !forceClean {
		fmt.Print("\nProceed with deletion? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	deleted := 0
	failed := 0
	for _, summary := range toDelete {
		if err := trace.DeleteRun(runsTraceDir, summary.RunID); err != nil {
			slog.Error("Failed to delete run", "run_id", summary.RunID, "error", err)
			failed++
		} else {
			slog.Info("Deleted run", "run_id", summary.RunID)
			deleted++
		}
	}

	fmt.Printf("\nDeleted %d run(s), %d failed.\n", deleted, failed)
	return nil
}

// selectRunsForDeletion determines which runs to delete under the
// retention policy.
func selectRunsForDeletion(summaries []trace.Summary, keepLast, olderThanDays int) []trace.Summary {
	var toDelete []trace.Summary

	// Age-based deletion
	if olderThanDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -olderThanDays)
		for _, summary := range summaries {
			if summary.EndTime.Before(cutoff) {
				toDelete = append(toDelete, summary)
			}
		}
	}

	// Count-based deletion: keep the most recent keepLast runs
	if keepLast > 0 && len(summaries) > keepLast {
		sorted := make([]trace.Summary, len(summaries))
		copy(sorted, summaries)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].EndTime.Before(sorted[j].EndTime)
		})

		numToDelete := len(sorted) - keepLast
		for i := 0; i < numToDelete; i++ {
			found := false
			for _, existing := range toDelete {
				if existing.RunID == sorted[i].RunID {
					found = true
					break
				}
			}
			if !found {
				toDelete = append(toDelete, sorted[i])
			}
		}
	}

	return toDelete
}

// getDirSize calculates the total size of a directory
func getDirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
