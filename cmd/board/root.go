package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/messageboard/internal/config"
	boardlog "github.com/vovakirdan/messageboard/internal/log"
)

// cli carries state shared by all subcommands.
type cli struct {
	configPath  string
	writeConfig bool
	overrides   config.Config

	cfg    config.Config
	logger *zerolog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "board",
		Short:         "In-memory message board server and client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to config file (default ./config.yaml)")
	flags.BoolVar(&c.writeConfig, "write-config", false, "write a default config file when none exists")
	flags.StringVar(&c.overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&c.overrides.LogFormat, "log-format", "", "log format: console or json")
	flags.StringVar(&c.overrides.APIBaseURL, "api-url", "", "base URL of the board server for client commands")

	addServeFlags(root, c)

	root.AddCommand(
		newServeCmd(c),
		newPostCmd(c),
		newListCmd(c),
		newWatchCmd(c),
		newConfigCmd(c),
	)
	return root
}

// load resolves configuration and builds the logger.
// Precedence: defaults < config file < env vars (.env included) < flags.
func (c *cli) load() error {
	_ = godotenv.Load(".env")

	bootstrap := boardlog.New(c.overrides.LogLevel, c.overrides.LogFormat)
	cfg, path, err := config.Load(bootstrap, config.LoadOptions{
		Path:         c.configPath,
		WriteDefault: c.writeConfig,
	})
	if err != nil {
		return err
	}
	cfg.UpdateFrom(c.overrides)

	c.cfg = cfg
	c.logger = boardlog.New(cfg.LogLevel, cfg.LogFormat)
	c.logger.Debug().Str("config_path", path).Msg("configuration loaded")
	return nil
}
