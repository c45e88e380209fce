package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/pdfbench/pkg/updater"
	"github.com/kpauljoseph/pdfbench/pkg/version"
)

var checkUpdate bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of pdfbench",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(version.GetDetailedVersionInfo())

		if !checkUpdate {
			return nil
		}

		info, err := updater.NewChecker(log).CheckForUpdates()
		if err != nil {
			return fmt.Errorf("update check failed: %w", err)
		}
		if info != nil && info.IsAvailable {
			fmt.Printf("Update available: %s -> %s\n%s\n", info.CurrentVersion, info.LatestVersion, info.DownloadURL)
		} else {
			fmt.Println("No update available.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&checkUpdate, "check-update", false, "check for a newer release")

	rootCmd.AddCommand(versionCmd)
}
