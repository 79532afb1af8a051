package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nao1215/cocafreq"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	keyDataDir  = "data-dir"
	keyLogLevel = "log-level"
	envPrefix   = "COCAFREQ"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	config     *viper.Viper
	configFile string
	verbose    bool

	// logger is built in PersistentPreRunE unless already set.
	logger *zap.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		config: viper.New(),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cocafreq",
		Short: "Convert and query the COCA word frequency workbook",
		Long: `cocafreq converts the four worksheets of the COCA word frequency
workbook into CSV files and queries them with raw SQL or simple filters.

Download the sample workbook from ` + cocafreq.SourceDownloadURL + `
and place it in the data directory as ` + cocafreq.DefaultSourceName + `.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync() //nolint:errcheck // stderr sync fails on some terminals
			}
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.String(keyDataDir, cocafreq.DefaultDataDir, "directory holding the workbook and derived CSV files")
	flags.StringVar(&a.configFile, "config", "", "optional YAML config file")
	flags.String(keyLogLevel, "warn", "log level: debug, info, warn or error")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.convertCmd(),
		a.sqlCmd(),
		a.queryCmd(),
		a.schemaCmd(),
	)
	return root
}

// setup loads .env, binds flags and environment to viper and builds the
// logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: load .env: %w", cocafreq.ErrIO, err)
	}

	v := a.config
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range []string{keyDataDir, keyLogLevel} {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(key)); err != nil {
			return err
		}
	}

	if a.configFile != "" {
		v.SetConfigFile(a.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("%w: read config %s: %w", cocafreq.ErrIO, a.configFile, err)
		}
	}

	if a.logger != nil {
		return nil
	}
	logger, err := a.buildLogger()
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) buildLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(a.config.GetString(keyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cocafreq.ErrArgument, err)
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func (a *app) dataDir() string {
	return a.config.GetString(keyDataDir)
}
