package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCmd(g *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a job application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			sess, _, err := openSession(cmd, g)
			if err != nil {
				return err
			}
			defer sess.Close()

			job, err := findJob(cmd, sess, id)
			if err != nil {
				return err
			}

			view := sess.List()
			if err := view.RequestDelete(id); err != nil {
				return err
			}
			if !yes {
				d := view.Snapshot().Dialog
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s - %s\n%s [y/N] ", d.Title, job.Company, job.Position, d.Message)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					view.CancelDelete()
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			res := view.ConfirmDelete(cmd.Context())
			reportNotifications(cmd, sess)
			if res.IsError() {
				return res.Error()
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
