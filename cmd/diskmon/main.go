package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "diskmon",
	Short:         "Discover mounted disks and monitor their free space",
	Long:          "diskmon discovers mounted filesystems, samples their capacity and reports free-space ratios as checks or Prometheus metrics.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	addGlobalFlags(rootCmd)
	rootCmd.AddCommand(
		newCheckCommand(),
		newWatchCommand(),
		newServeCommand(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(int(exit))
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// exitError carries a non-zero exit code derived from check results.
type exitError int

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}
