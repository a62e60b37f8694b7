package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const unknownVersion = "(devel)"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the prettymap build, the Go toolchain it was built with and the configured formatter.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, _ := debug.ReadBuildInfo()

			for _, line := range versionLines(info, viper.GetString(formatterKindKey), viper.GetString(formatterCommandKey)) {
				cmd.Println(line)
			}
		},
	}
}

// versionLines renders the version report. info may be nil when the binary
// carries no build information.
func versionLines(info *debug.BuildInfo, formatterKind, formatterCommand string) []string {
	version, goVersion := unknownVersion, "unknown"

	if info != nil {
		if info.Main.Version != "" {
			version = info.Main.Version
		}

		goVersion = info.GoVersion
	}

	formatter := formatterKind
	if formatterKind == formatterKindPrettier {
		formatter = fmt.Sprintf("%s (%s)", formatterKind, formatterCommand)
	}

	return []string{
		"prettymap " + version,
		"go version\t" + goVersion,
		"formatter\t" + formatter,
		"sourcemap\tv3",
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
