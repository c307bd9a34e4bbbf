package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jobtracker/internal/secrets"
)

func newTokenCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the API bearer token in the OS keychain",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [TOKEN]",
		Short: "Store the API token (read from stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			var tok string
			if len(args) == 1 {
				tok = args[0]
			} else {
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				tok = line
			}
			tok = strings.TrimSpace(tok)
			if tok == "" {
				return errors.New("empty token")
			}
			if err := secrets.SetAPIToken(cfg, tok); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token stored for %s\n", secrets.APIKeyringAccount(cfg))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if err := secrets.DeleteAPIToken(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token removed for %s\n", secrets.APIKeyringAccount(cfg))
			return nil
		},
	})
	return cmd
}
