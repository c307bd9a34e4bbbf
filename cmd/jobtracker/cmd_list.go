package main

import (
	"errors"

	"github.com/spf13/cobra"

	"jobtracker/internal/domain"
	"jobtracker/internal/listview"
)

func newListCmd(g *globalFlags) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List job applications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, _, err := openSession(cmd, g)
			if err != nil {
				return err
			}
			defer sess.Close()

			view := sess.List()
			if status != "" {
				st, err := domain.ParseStatus(status)
				if err != nil {
					return err
				}
				view.SetFilter(cmd.Context(), st)
			} else {
				view.Load(cmd.Context())
			}

			snap := view.Snapshot()
			if err := listview.RenderTable(cmd.OutOrStdout(), snap); err != nil {
				return err
			}
			if snap.State == listview.StateError {
				return errors.New(snap.Err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only show APPLIED, INTERVIEWING, ACCEPTED or REJECTED")
	return cmd
}
