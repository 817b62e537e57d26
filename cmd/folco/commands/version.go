package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	buildinfo "github.com/thoreinstein/folco/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, build date and platform of folco.`,
	Run: func(cmd *cobra.Command, _ []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "folco version %s\n", buildinfo.Version)
	fmt.Fprintf(w, "  commit:   %s\n", buildinfo.Commit)
	fmt.Fprintf(w, "  built:    %s\n", buildinfo.Date)
	fmt.Fprintf(w, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
