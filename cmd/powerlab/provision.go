package main

import (
	"path"

	"github.com/spf13/cobra"

	"github.com/huskerjeff/powerlab/internal/platform"
	"github.com/huskerjeff/powerlab/internal/provision"
)

var (
	vhdAttachTo string
	vhdSizeGB   int64
)

var switchCmd = &cobra.Command{
	Use:   "switch [name]",
	Short: "Ensure a virtual switch exists",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, host, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer host.Close(cmd.Context())

		name := cfg.Lab.SwitchName
		if len(args) > 0 {
			name = args[0]
		}
		_, err = provision.NewEnsurer(host).Switch(cmd.Context(), platform.SwitchSpec{
			Name: name,
			Type: platform.SwitchType(cfg.Lab.SwitchType),
		})
		return err
	},
}

var vmCmd = &cobra.Command{
	Use:   "vm [name]",
	Short: "Ensure a virtual machine exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, host, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer host.Close(cmd.Context())

		_, err = provision.NewEnsurer(host).VM(cmd.Context(), platform.VMSpec{
			Name:       args[0],
			Path:       cfg.Lab.VMPath,
			MemoryMB:   cfg.Lab.VMMemoryMB,
			SwitchName: cfg.Lab.SwitchName,
			Generation: cfg.Lab.VMGeneration,
		})
		return err
	},
}

var vhdCmd = &cobra.Command{
	Use:   "vhd [name]",
	Short: "Ensure a virtual disk exists and attach it to a VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, host, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer host.Close(cmd.Context())

		size := vhdSizeGB
		if size == 0 {
			size = cfg.Lab.VHDSizeGB
		}
		_, err = provision.NewEnsurer(host).Disk(cmd.Context(), platform.DiskSpec{
			Name:   args[0],
			Path:   path.Join(cfg.Lab.VHDPath, args[0]+".vmdk"),
			SizeGB: size,
			Sizing: platform.DiskSizing(cfg.Lab.VHDSizing),
		}, vhdAttachTo)
		return err
	},
}

func init() {
	vhdCmd.Flags().StringVar(&vhdAttachTo, "vm", "", "VM to attach the disk to")
	vhdCmd.Flags().Int64Var(&vhdSizeGB, "size-gb", 0, "disk size in GB (default from configuration)")
}
