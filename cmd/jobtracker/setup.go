package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jobtracker/internal/app"
	"jobtracker/internal/config"
	"jobtracker/internal/logging"
	"jobtracker/internal/notify"
)

const defaultConfigPath = "config/config.yml"

// loadConfig resolves the data dir, loads .env files, bootstraps and reads
// the config file, applies JOBTRACKER_* overrides and sets up logging.
func loadConfig(cmd *cobra.Command, g *globalFlags) (config.Config, error) {
	dataDir := g.dataDir
	if dataDir == "" {
		dataDir = os.Getenv("JOBTRACKER_DATA_DIR")
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return config.Config{}, err
	}

	for _, env := range []string{".env", filepath.Join(dataDir, ".env")} {
		if err := config.LoadEnvFile(env); err != nil {
			return config.Config{}, err
		}
	}

	path := g.configPath
	if path == "" {
		p, err := config.EnsureUserConfig(dataDir, defaultConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("config bootstrap failed: %w", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := config.OverlayEnv(&cfg); err != nil {
		return config.Config{}, err
	}
	if g.dataDir != "" {
		cfg.App.DataDir = g.dataDir
	}

	cfg, v := config.NormalizeAndValidate(cfg)
	logging.Init(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format, cmd.ErrOrStderr())
	for _, w := range v.Warnings {
		logging.New("config").Warn(w)
	}
	if !v.OK() {
		return config.Config{}, fmt.Errorf("invalid config %s:\n- %s", path, strings.Join(v.Errors, "\n- "))
	}
	return cfg, nil
}

func openSession(cmd *cobra.Command, g *globalFlags, opts ...app.Option) (*app.Session, config.Config, error) {
	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return nil, cfg, err
	}
	sess, err := app.NewSession(cfg, opts...)
	if err != nil {
		return nil, cfg, err
	}
	return sess, cfg, nil
}

// reportNotifications prints what the session announced: successes to
// stdout, errors to stderr.
func reportNotifications(cmd *cobra.Command, sess *app.Session) {
	for _, n := range sess.Notifications().Active() {
		if n.Kind == notify.KindError {
			fmt.Fprintln(cmd.ErrOrStderr(), n.Message)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), n.Message)
	}
}
