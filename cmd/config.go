package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "prettymap"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	sourcemapFlagName   = "sourcemap"
	optionFlagName      = "option"
	outDirFlagName      = "out-dir"
	runParallelFlagName = "parallel"
	formatterFlagName   = "formatter"
	cwdFlagName         = "cwd"
	diffFlagName        = "diff"
	logFileFlagName     = "log-file"
	verboseFlagName     = "verbose"

	sourcemapConfigKey     = "sourcemap"
	cwdConfigKey           = "cwd"
	formatterKindKey       = "formatter.kind"
	formatterCommandKey    = "formatter.command"
	formatterTimeoutKey    = "formatter.timeout"
	runParallelConfigKey   = "run.parallel"
	outputDirConfigKey     = "output.dir"
	sourcemapModeConfigKey = "output.sourcemap_mode"
	diffTimeoutKey         = "diff.timeout"

	formatterKindPrettier = "prettier"
	formatterKindGofmt    = "gofmt"

	defaultFormatterKind    = formatterKindPrettier
	defaultFormatterCommand = "prettier"
	defaultFormatterTimeout = 30 * time.Second
	defaultRunParallel      = 4
	defaultOutputDir        = ""
	defaultSourcemapMode    = "file"
	// Zero means the character diff always runs to the minimal script.
	defaultDiffTimeout = 0

	envPrefix = "PRETTYMAP"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".prettymap.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// sourcemap has no default: an absent key leaves the plugin-level setting unset.
	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(formatterKindKey, defaultFormatterKind)
	viper.SetDefault(formatterCommandKey, defaultFormatterCommand)
	viper.SetDefault(formatterTimeoutKey, int64(defaultFormatterTimeout.Seconds()))
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(outputDirConfigKey, defaultOutputDir)
	viper.SetDefault(sourcemapModeConfigKey, defaultSourcemapMode)
	viper.SetDefault(diffTimeoutKey, defaultDiffTimeout)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	readConfig(viper.GetViper())
}

// readConfig loads the config file into v. A missing file is normal and only
// logged at debug level; anything else (a malformed file, bad permissions) is
// reported and the defaults stay in effect.
func readConfig(v *viper.Viper) {
	err := v.ReadInConfig()
	if err == nil {
		return
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No config file found, using defaults", "file", v.ConfigFileUsed())
		return
	}

	slog.Warn("Failed to read config file, using defaults", "file", v.ConfigFileUsed(), "error", err)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	// Create a new logger with the file handler and set it as the global logger
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
