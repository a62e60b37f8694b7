// Package cmd provides the root command and CLI setup for prettymap.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mouse-blink/prettymap/internal/adapter"
	"github.com/mouse-blink/prettymap/internal/controller"
	"github.com/mouse-blink/prettymap/internal/domain"
	m "github.com/mouse-blink/prettymap/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var configResolver adapter.ConfigResolver
var differ adapter.Differ
var workflow domain.Workflow
var ui controller.UI

// logFileFlag overrides log.filename for a single invocation.
var logFileFlag string

// verboseFlag switches the log level to debug.
var verboseFlag bool

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	configResolver = adapter.NewLocalConfigResolver(fsAdapter)
	differ = adapter.NewMyersDiffer(time.Duration(viper.GetInt64(diffTimeoutKey)) * time.Second)
	workflow = domain.NewWorkflow(fsAdapter, ui)
}

const rootLongDescription = `Prettymap reformats bundler output with an external code formatter
(prettier by default) and can emit a character-level source map that points
every formatted character back to the bundle it came from.

Formatter options are discovered from .prettierrc files and package.json,
and can be overridden with --option key=value.`

const formatLongDescription = `Reformat the given files in place, or into --out-dir.

With --sourcemap, a source map is written next to every output file
(or inlined, see --sourcemap=inline and output.sourcemap_mode).

With --diff, a unified diff of every reformatted file is printed after the
summary. On a terminal, progress is shown while files are formatted and long
reports open in a pager.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		configureLogger(logFileFlag, verboseFlag || viper.GetBool(logVerboseKey))
		return nil
	}

	configureRootFlags(cmd)

	return cmd
}

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "prettymap",
		Short:        "Reformat bundles and map them back to the original",
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default from log.filename)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
