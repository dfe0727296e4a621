package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/jasonmoo/scssexpand/internal/output"
)

var (
	Version   = "dev"
	GitCommit = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		writer, err := GetWriter(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("invalid output format: %w", err)
		}
		return writer.Write(&output.VersionResponse{
			Version:   Version,
			Commit:    GitCommit,
			GoVersion: runtime.Version(),
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
