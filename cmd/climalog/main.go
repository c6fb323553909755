package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/climalog/internal/adapters/csvfile"
	logAdapter "github.com/bft-labs/climalog/internal/adapters/log"
	"github.com/bft-labs/climalog/internal/adapters/serial"
	"github.com/bft-labs/climalog/internal/cliconfig"
	"github.com/bft-labs/climalog/pkg/climalog"
)

const longHelp = `Sample a DHT11 temperature/humidity sensor over a serial link and log it.

Highlights:
  - Reads "t<temp>,h<hum>;" frames every poll interval and shows the latest reading.
  - Appends readings to a CSV file in sorted, deduplicated batches.
  - The CSV file must exist; create it once with "climalog init".
  - Configure via file ($HOME/.climalog/config.toml), CLIMALOG_* env, or flags.`

var exampleUsage = strings.TrimSpace(`
  climalog init --storage temp_hum.csv
  climalog --device /dev/ttyACM0 --storage temp_hum.csv
  climalog ports
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	// resolve applies file, env and flag settings in that order of precedence.
	resolve := func(cmd *cobra.Command) error {
		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}

		changed := map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return err
			}
		}

		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return err
		}

		if err := cliconfig.SetLogLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		log = cliconfig.Logger()

		return cfg.Validate()
	}

	root := &cobra.Command{
		Use:           "climalog",
		Short:         "Log a serial temperature/humidity sensor to CSV",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			log.Info().Interface("config", cfg).Msg("configuration")

			libCfg := climalog.Config{
				Device:            cfg.Device,
				BaudRate:          cfg.BaudRate,
				ReadTimeout:       cfg.ReadTimeout,
				ChunkSize:         cfg.ChunkSize,
				Delimiter:         cfg.Delimiter[0],
				FieldSeparator:    cfg.FieldSeparator[0],
				TemperaturePrefix: cfg.TemperaturePrefix,
				HumidityPrefix:    cfg.HumidityPrefix,
				BatchCapacity:     cfg.BatchCapacity,
				PollInterval:      cfg.PollInterval,
				StoragePath:       cfg.StoragePath,
				UTCOffset:         climalog.Offset(cfg.UTCOffset),
				Dedup:             climalog.DedupPolicy(cfg.Dedup),
				Plain:             cfg.Plain,
			}

			// Only SIGINT/SIGTERM stop the loop.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err := climalog.Run(ctx, libCfg,
				climalog.WithLogger(logAdapter.NewZerologAdapterWithLogger(log)),
				climalog.WithOutput(os.Stdout),
			)
			if err != nil {
				return err
			}
			log.Info().Msg("received signal, stopped")
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the storage file with a header row",
		Long:  "Create the CSV storage file with its header row. An existing file is never overwritten.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			if err := csvfile.Init(cfg.StoragePath); err != nil {
				return err
			}
			log.Info().Str("path", cfg.StoragePath).Msg("storage initialized")
			return nil
		},
	}

	portsCmd := &cobra.Command{
		Use:   "ports",
		Short: "List serial ports present on this system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := serial.ListPorts()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				log.Warn().Msg("no serial ports found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	// Flags shared by every subcommand that reads configuration.
	flags := root.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.climalog/config.toml)")
	flags.StringVar(&cfg.StoragePath, "storage", cfg.StoragePath, "CSV file readings are appended to")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.Flags().StringVar(&cfg.Device, "device", cfg.Device, "serial device path")
	root.Flags().IntVar(&cfg.BaudRate, "baud", cfg.BaudRate, "serial baud rate")
	root.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "timeout for a single device read")
	root.Flags().IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "bytes requested per read")

	root.Flags().StringVar(&cfg.Delimiter, "delimiter", cfg.Delimiter, "frame delimiter (single byte)")
	root.Flags().StringVar(&cfg.FieldSeparator, "field-separator", cfg.FieldSeparator, "field separator inside a frame (single byte)")
	root.Flags().StringVar(&cfg.TemperaturePrefix, "temperature-prefix", cfg.TemperaturePrefix, "prefix of the temperature field")
	root.Flags().StringVar(&cfg.HumidityPrefix, "humidity-prefix", cfg.HumidityPrefix, "prefix of the humidity field")
	for _, name := range []string{"chunk-size", "delimiter", "field-separator", "temperature-prefix", "humidity-prefix"} {
		if err := root.Flags().MarkHidden(name); err != nil {
			log.Info().Err(err).Str("flag", name).Msg("failed to hide flag")
		}
	}

	root.Flags().IntVar(&cfg.BatchCapacity, "batch-capacity", cfg.BatchCapacity, "readings per CSV flush")
	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "pause between read cycles")
	root.Flags().DurationVar(&cfg.UTCOffset, "utc-offset", cfg.UTCOffset, "fixed UTC offset for timestamps")
	root.Flags().StringVar(&cfg.Dedup, "dedup", cfg.Dedup, "batch dedup policy: either (temperature or humidity tie) or exact")
	root.Flags().BoolVar(&cfg.Plain, "plain", cfg.Plain, "print one line per cycle instead of redrawing")

	root.AddCommand(initCmd, portsCmd)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Bool("fatal", climalog.IsFatal(err)).Msg("climalog")
		os.Exit(1)
	}
}
