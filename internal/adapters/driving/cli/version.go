package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long: `Print the confadmin version.

With -o json or -o yaml the Go toolchain and platform are included,
which is what bug reports should carry.`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	if outputFormat == formatTable {
		cmd.Printf("confadmin version %s\n", version)
		return nil
	}
	return renderRecord(cmd.OutOrStdout(), outputFormat,
		[]string{"version", "go", "platform"},
		[]any{version, runtime.Version(), runtime.GOOS + "/" + runtime.GOARCH},
	)
}
