package main

import (
	"github.com/spf13/cobra"

	"github.com/huskerjeff/powerlab/internal/directory"
	"github.com/huskerjeff/powerlab/internal/remote"
)

var (
	adController string
	adBaseDN     string
)

var bootstrapADCmd = &cobra.Command{
	Use:   "bootstrap-ad [workbook]",
	Short: "Create AD test objects from a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupConfig()
		if err != nil {
			return err
		}

		groups, users, err := directory.ReadWorkbook(args[0])
		if err != nil {
			return err
		}

		dialer := remote.NewSSHDialer(cfg.Guest.Port)
		sess, err := dialer.Dial(cmd.Context(), adController, remote.Credential{
			Username: cfg.Guest.Username,
			Password: cfg.Guest.Password,
		})
		if err != nil {
			return err
		}
		defer sess.Close()

		client := directory.NewADClient(sess, adBaseDN)
		return directory.Bootstrap(cmd.Context(), client, groups, users)
	},
}

func init() {
	bootstrapADCmd.Flags().StringVar(&adController, "dc", "LABDC", "domain controller VM name")
	bootstrapADCmd.Flags().StringVar(&adBaseDN, "base-dn", "DC=powerlab,DC=local", "base distinguished name")
}
