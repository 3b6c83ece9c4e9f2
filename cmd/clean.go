package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/anoixa/fish-bed/config"
	"github.com/anoixa/fish-bed/internal/app"
	"github.com/anoixa/fish-bed/internal/janitor"
	"github.com/spf13/cobra"
)

// cleanCmd 清理孤儿记录、过期会话与临时文件
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean orphan gallery records, expired sessions and temp files",
	Long: `Clean orphan gallery records, expired sessions and temp files.
This includes:
  - Delete gallery rows whose blob is missing from storage
    (skipped when storage is unhealthy or a whole batch is missing, unless --force)
  - Delete expired refresh-token devices
  - Delete upload temp files older than 24 hours`,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		force, _ := cmd.Flags().GetBool("force")

		if err := runClean(dryRun, force); err != nil {
			log.Fatalf("Clean failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().Bool("dry-run", false, "Only show what would be cleaned, don't actually delete")
	cleanCmd.Flags().Bool("force", false, "Delete gallery rows even when every blob in a batch is missing")
}

func runClean(dryRun, force bool) error {
	config.InitConfig()

	container := app.NewContainer(config.Get())
	if err := container.Init(); err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer container.Close()

	opts := container.JanitorOptions(dryRun)
	opts.Force = force

	report, err := container.Janitor.Run(context.Background(), opts)
	if report != nil {
		printCleanReport(report)
	}
	return err
}

func printCleanReport(report *janitor.Report) {
	fmt.Println()
	fmt.Println("========================================")
	if report.DryRun {
		fmt.Println("           [DRY RUN MODE]")
	}
	fmt.Println("         Clean Statistics")
	fmt.Println("========================================")
	fmt.Printf("Gallery rows scanned:       %d\n", report.ScannedImages)
	fmt.Printf("Missing blobs found:        %d\n", len(report.MissingBlobs))
	fmt.Printf("Gallery rows deleted:       %d\n", report.RemovedRows)
	if report.OrphansAborted {
		fmt.Println("Orphan removal aborted: a whole batch of blobs is missing, check storage or rerun with --force")
	}
	fmt.Printf("Expired devices:            %d\n", report.ExpiredDevices)
	fmt.Printf("Stale temp files:           %d\n", report.StaleTempFiles)
	fmt.Println("========================================")

	if report.DryRun {
		for _, id := range report.MissingBlobs {
			fmt.Printf("  [DRY-RUN] Would delete gallery row %s\n", id)
		}
	}
}
