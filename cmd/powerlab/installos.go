package main

import (
	"github.com/spf13/cobra"

	"github.com/huskerjeff/powerlab/internal/osinstall"
	"github.com/huskerjeff/powerlab/internal/platform"
)

var installOSVersion string

var installOSCmd = &cobra.Command{
	Use:   "install-os [vm]",
	Short: "Stage an unattended OS installation on a VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, host, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer host.Close(cmd.Context())

		inst := osinstall.NewInstaller(host, osinstall.Config{
			ISORoot:    cfg.Lab.ISORoot,
			VHDPath:    cfg.Lab.VHDPath,
			DiskSizeGB: cfg.Lab.VHDSizeGB,
			DiskSizing: platform.DiskSizing(cfg.Lab.VHDSizing),
		})
		return inst.Install(cmd.Context(), osinstall.Spec{
			VMName:          args[0],
			OperatingSystem: installOSVersion,
		})
	},
}

func init() {
	installOSCmd.Flags().StringVar(&installOSVersion, "os", "Server 2019", "operating system to install")
}
