package adapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"time"
	"unicode"

	m "github.com/mouse-blink/prettymap/internal/model"
)

// DefaultFormatterCommand runs the prettier CLI.
const DefaultFormatterCommand = "prettier"

// FilepathOption is the prettier option naming the file being formatted. On
// the command line it is spelled --stdin-filepath.
const FilepathOption = "filepath"

const stdinFilepathFlag = "stdin-filepath"

// DefaultFormatterTimeout bounds a single formatter invocation.
const DefaultFormatterTimeout = 30 * time.Second

// ExecFormatter runs an external formatter process. Source is written to its
// stdin and the formatted text is read from stdout. Options are rendered as
// prettier-style command line flags.
type ExecFormatter struct {
	command []string
	timeout time.Duration
}

// NewExecFormatter constructs an ExecFormatter. command is split on
// whitespace, so "npx prettier" works.
func NewExecFormatter(command string, timeout time.Duration) *ExecFormatter {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = []string{DefaultFormatterCommand}
	}

	if timeout <= 0 {
		timeout = DefaultFormatterTimeout
	}

	return &ExecFormatter{
		command: fields,
		timeout: timeout,
	}
}

// Command returns the executable and its leading arguments.
func (f *ExecFormatter) Command() []string {
	return append([]string(nil), f.command...)
}

// Format runs the formatter over source.
func (f *ExecFormatter) Format(ctx context.Context, source string, options m.FormatOptions) (string, error) {
	name, err := exec.LookPath(f.command[0])
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrFormatterNotFound, f.command[0])
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	args := append(append([]string(nil), f.command[1:]...), OptionFlags(withFilepath(ctx, options))...)

	// #nosec G204 - the formatter command comes from the user's own configuration
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running formatter", "command", name, "args", args)

	if err := cmd.Run(); err != nil {
		slog.Error("Formatter failed", "command", name, "error", err, "stderr", stderr.String())
		return "", fmt.Errorf("formatter %s failed: %w: %s", f.command[0], err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// withFilepath adds the path carried by ctx unless options already name one.
// Without it prettier cannot infer a parser for stdin. options is not modified.
func withFilepath(ctx context.Context, options m.FormatOptions) m.FormatOptions {
	path, ok := FilePathFrom(ctx)
	if !ok || options.Has(FilepathOption) {
		return options
	}

	out := options.Clone()
	if out == nil {
		out = m.FormatOptions{}
	}

	out[FilepathOption] = string(path)

	return out
}

// OptionFlags renders options as CLI flags in key order. true becomes
// --key, false becomes --no-key, lists repeat the flag and nested maps
// (including maps inside lists, such as overrides) are skipped. filepath
// becomes --stdin-filepath.
func OptionFlags(options m.FormatOptions) []string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	flags := make([]string, 0, len(keys))

	for _, key := range keys {
		name := kebabCase(key)
		if key == FilepathOption {
			name = stdinFilepathFlag
		}

		switch v := options[key].(type) {
		case nil:
			continue
		case bool:
			if v {
				flags = append(flags, "--"+name)
			} else {
				flags = append(flags, "--no-"+name)
			}
		case []any:
			for _, item := range v {
				if _, nested := item.(map[string]any); nested {
					slog.Debug("Skipping nested formatter option", "key", key)
					continue
				}

				flags = append(flags, fmt.Sprintf("--%s=%v", name, item))
			}
		case []string:
			for _, item := range v {
				flags = append(flags, fmt.Sprintf("--%s=%s", name, item))
			}
		case map[string]any, []map[string]any:
			slog.Debug("Skipping nested formatter option", "key", key)
		default:
			flags = append(flags, fmt.Sprintf("--%s=%v", name, v))
		}
	}

	return flags
}

// kebabCase converts camelCase option names to the CLI spelling.
func kebabCase(s string) string {
	var sb strings.Builder

	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}

			sb.WriteRune(unicode.ToLower(r))

			continue
		}

		sb.WriteRune(r)
	}

	return sb.String()
}
