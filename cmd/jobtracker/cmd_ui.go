package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jobtracker/internal/app"
	"jobtracker/internal/events"
	"jobtracker/internal/scheduler"
	"jobtracker/internal/web"
)

func newUICmd(g *globalFlags) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Serve the browser UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			hub := events.NewHub()
			defer hub.Close()

			sess, cfg, err := openSession(cmd, g, app.WithHub(hub))
			if err != nil {
				return err
			}
			defer sess.Close()

			srv, err := web.New(web.Deps{Session: sess, Hub: hub})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go scheduler.Every(ctx, cfg.GCTime(), "cache-sweep", func(context.Context) error {
				sess.Sweep()
				return nil
			})

			if port == 0 {
				port = cfg.App.UIPort
			}
			return serve(ctx, "ui", fmt.Sprintf("127.0.0.1:%d", port), srv.Handler())
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default app.ui_port)")
	return cmd
}
