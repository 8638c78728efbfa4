package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/exchange-logger/internal/app"
	"github.com/oshokin/exchange-logger/internal/config"
	"github.com/oshokin/exchange-logger/internal/logger"
	"github.com/oshokin/exchange-logger/internal/version"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals // Releases the log file opened during startup.
	logCloser io.Closer

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "exchange-logger",
		Short: "Pretty-print HTTP requests, responses and errors.",
		Long: `Exchange Logger prints HTTP exchanges as boxed, human-readable blocks.
It can:
- Render recorded exchanges from YAML fixtures
- Fetch a URL and print every request, response and failure on the way

Bodies can be truncated and sensitive headers and fields can be redacted.`,
		Version:           version.Full(),
		PersistentPreRun:  initConfig,
		PersistentPostRun: closeLog,
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmdFlags := rootCmd.PersistentFlags()

	rootCmdFlags.StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags.String(
		"log-level",
		"",
		"logging level: debug, info, warn, error.")

	rootCmdFlags.Bool(
		"obfuscate",
		false,
		"redact sensitive headers and body fields.")

	rootCmdFlags.StringSlice(
		"redact-keys",
		nil,
		"comma-separated list of keys to redact, replacing the built-in list.")

	rootCmdFlags.String(
		"max-body-length",
		"",
		"print bodies up to this size only, for example: 512, 10 KB, 1 MiB; 0 disables the limit.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if err = bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
	}

	logCloser = app.ConfigureLogging(appConfig)
}

func closeLog(_ *cobra.Command, _ []string) {
	if logCloser != nil {
		_ = logCloser.Close()
	}
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flag := flags.Lookup("obfuscate"); flag != nil && flag.Changed {
		cfg.Obfuscation.Enabled, _ = flags.GetBool("obfuscate")
	}

	if flag := flags.Lookup("redact-keys"); flag != nil && flag.Changed {
		cfg.Obfuscation.RedactableKeys, _ = flags.GetStringSlice("redact-keys")
	}

	if flag := flags.Lookup("max-body-length"); flag != nil && flag.Changed {
		maxBodyLength, _ := flags.GetString("max-body-length")
		cfg.Request.MaxBodyLength = maxBodyLength
		cfg.Response.MaxBodyLength = maxBodyLength
	}

	if flag := flags.Lookup("timeout"); flag != nil && flag.Changed {
		cfg.Timeout, _ = flags.GetString("timeout")
	}

	if flag := flags.Lookup("user-agent"); flag != nil && flag.Changed {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}

	return config.ValidateConfig(cfg)
}
