package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mouse-blink/prettymap/internal/adapter"
	"github.com/mouse-blink/prettymap/internal/bundler"
	"github.com/mouse-blink/prettymap/internal/domain"
	m "github.com/mouse-blink/prettymap/internal/model"
)

var formatSourcemapFlag string
var formatOptionFlags []string
var formatOutDirFlag string
var formatParallelFlag int
var formatFormatterFlag string
var formatCwdFlag string
var formatDiffFlag bool

// formatCmd represents the format command.
var formatCmd = newFormatCmd()

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [files...]",
		Short: "Reformat files and optionally emit source maps",
		Long:  formatLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			raw, err := parseOptionFlags(formatOptionFlags)
			if err != nil {
				return err
			}

			if cwd := viper.GetString(cwdConfigKey); cwd != "" {
				raw[m.OptionCwd] = cwd
			}

			if setting := viper.Get(sourcemapConfigKey); setting != nil {
				raw[m.OptionSourcemap] = setting
			}

			formatter, err := newFormatter(
				viper.GetString(formatterKindKey),
				viper.GetString(formatterCommandKey),
				time.Duration(viper.GetInt64(formatterTimeoutKey))*time.Second,
			)
			if err != nil {
				return err
			}

			plugin := domain.NewPlugin(ctx, raw, domain.NewOptionResolver(configResolver, ui), formatter, differ, ui)

			output := bundler.OutputOptions{}
			mode := bundler.MapModeOf(viper.GetString(sourcemapModeConfigKey))

			// The flag is the per-call setting, so it only counts when given.
			if cmd.Flags().Changed(sourcemapFlagName) {
				output.Sourcemap = formatSourcemapFlag
				if flagMode := bundler.MapModeOf(formatSourcemapFlag); flagMode != bundler.MapFile {
					mode = flagMode
				}
			}

			return workflow.Format(ctx, domain.FormatArgs{
				Plugin:   plugin,
				Paths:    parsePaths(args),
				Output:   output,
				Mode:     mode,
				OutDir:   m.Path(viper.GetString(outputDirConfigKey)),
				ShowDiff: formatDiffFlag,
				Threads:  viper.GetInt(runParallelConfigKey),
			})
		},
	}

	configureFormatFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(formatCmd)
}

func configureFormatFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&formatSourcemapFlag, sourcemapFlagName, "m", "", "emit a source map: true, false, silent, inline or hidden")
	cmd.Flags().Lookup(sourcemapFlagName).NoOptDefVal = "true"

	cmd.Flags().StringArrayVarP(&formatOptionFlags, optionFlagName, "O", nil, "formatter option as key=value (can be repeated)")

	cmd.Flags().StringVarP(&formatOutDirFlag, outDirFlagName, "d", viper.GetString(outputDirConfigKey), "write formatted files into this directory instead of in place")
	bindFlagToConfig(cmd.Flags().Lookup(outDirFlagName), outputDirConfigKey)

	cmd.Flags().IntVarP(&formatParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of files formatted in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().StringVarP(&formatFormatterFlag, formatterFlagName, "f", viper.GetString(formatterKindKey), "formatter to run: prettier or gofmt")
	bindFlagToConfig(cmd.Flags().Lookup(formatterFlagName), formatterKindKey)

	cmd.Flags().BoolVar(&formatDiffFlag, diffFlagName, false, "print a unified diff of every reformatted file")

	cmd.Flags().StringVar(&formatCwdFlag, cwdFlagName, viper.GetString(cwdConfigKey), "directory where formatter config discovery starts")
	bindFlagToConfig(cmd.Flags().Lookup(cwdFlagName), cwdConfigKey)
}

func newFormatter(kind, command string, timeout time.Duration) (adapter.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", formatterKindPrettier:
		return adapter.NewExecFormatter(command, timeout), nil
	case formatterKindGofmt:
		return adapter.NewGoFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown formatter %q", kind)
	}
}

// parseOptionFlags turns repeated key=value pairs into formatter options.
// A bare key means true. Values that look like booleans or integers are typed.
func parseOptionFlags(pairs []string) (m.FormatOptions, error) {
	options := m.FormatOptions{}

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid --%s %q: missing key", optionFlagName, pair)
		}

		if !found {
			options[key] = true
			continue
		}

		options[key] = parseOptionValue(value)
	}

	return options, nil
}

func parseOptionValue(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}

	if n, err := strconv.Atoi(value); err == nil {
		return n
	}

	return value
}
