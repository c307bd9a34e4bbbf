package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"jobtracker/internal/events"
	"jobtracker/internal/httpapi"
	"jobtracker/internal/store"
)

func newBackendCmd(g *globalFlags) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "backend",
		Short: "Serve the sqlite reference /api/jobs backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}

			dbPath := cfg.Backend.DBFile
			if !filepath.IsAbs(dbPath) {
				dbPath = filepath.Join(cfg.App.DataDir, dbPath)
			}
			db, err := store.Open(cmd.Context(), dbPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", dbPath, err)
			}
			defer db.Close()

			hub := events.NewHub()
			defer hub.Close()

			if port == 0 {
				port = cfg.Backend.Port
			}
			return serve(cmd.Context(), "backend", fmt.Sprintf("127.0.0.1:%d", port), httpapi.NewHandler(httpapi.Deps{
				DB:  db.Pool,
				Hub: hub,
			}))
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default backend.port)")
	return cmd
}
