// internal/cli/root.go
package benchboard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"

	"github.com/mwiater/benchboard/internal/appconfig"
	"github.com/mwiater/benchboard/internal/dataset"
	"github.com/mwiater/benchboard/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config

	// vp holds the merged flag and file settings. Ingest name maps use
	// dotted labels such as "GPT-5.2", so keys are split on "::" instead.
	vp = newViper()
)

func newViper() *viper.Viper {
	return viper.NewWithOptions(viper.KeyDelimiter("::"))
}

var rootCmd = &cobra.Command{
	Use:          "benchboard",
	Short:        "benchboard builds a static leaderboard from agent benchmark results",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults)
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// 2) If user did NOT set a flag, copy the config value into the flag so
		//    both pflags and viper reflect the same, final value.
		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(vp.GetBool("debug")))
		}

		// 3) Materialize the fully merged configuration into currentConfig
		//    (flags > config > defaults).
		var cfg appconfig.Config
		if err := vp.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = vp.ConfigFileUsed()
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		logging.SetDebug(cfg.Debug)
		logging.LogDebug("command %q using config %q", cmd.CommandPath(), cfg.ConfigPath)
		return nil
	},
}

// Execute runs the root command. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "log file path (default benchboard.log)")
	rootCmd.PersistentFlags().String("scores", "", "scores document path or http(s) URL")
	rootCmd.PersistentFlags().String("output", "", "site output directory")

	bindFlags()
}

// bindFlags binds persistent flags to viper keys (flags override config).
func bindFlags() {
	_ = vp.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = vp.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = vp.BindPFlag("scoresPath", rootCmd.PersistentFlags().Lookup("scores"))
	_ = vp.BindPFlag("outputDir", rootCmd.PersistentFlags().Lookup("output"))
}

func initConfig() {
	if cfgFile != "" {
		vp.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and sets safe defaults.
func ensureConfigLoaded() error {
	vp.SetDefault("debug", false)
	vp.SetDefault("gzip", false)
	vp.SetDefault("fetchTimeout", 30)

	if err := vp.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || errors.Is(err, fs.ErrNotExist) {
			// No file: fine, we'll use defaults/flags
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// getConfig returns the loaded application configuration for other packages.
func getConfig() *appconfig.Config {
	return currentConfig
}

// requireConfig returns the merged configuration after validating it.
func requireConfig() (*appconfig.Config, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration is not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDataset fetches the configured scores document and normalises it
// against the config catalog.
func loadDataset(ctx context.Context, cfg *appconfig.Config) (*dataset.Dataset, error) {
	timeout := cfg.FetchTimeoutDuration()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	loader := dataset.Loader{Client: &http.Client{Timeout: timeout}}
	doc, err := loader.Load(ctx, cfg.ScoresSource())
	if err != nil {
		return nil, err
	}
	ds, err := dataset.New(doc, cfg.Catalog())
	if err != nil {
		return nil, err
	}
	for _, key := range ds.Skipped() {
		logging.LogStage("load", "agent", key, "status", "no scores")
	}
	for _, key := range ds.Extra() {
		logging.LogStage("load", "agent", key, "status", "not in config")
	}
	logging.LogStage("load", "source", cfg.ScoresSource(), "agents", len(ds.Agents()), "models", len(ds.Models()), "benchmarks", len(ds.Benchmarks()))
	return ds, nil
}
