package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "powerlab",
	Short: "Provision a virtual lab: switches, VMs, disks, AD and SQL Server",
}

func init() {
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(vmCmd)
	rootCmd.AddCommand(vhdCmd)
	rootCmd.AddCommand(installOSCmd)
	rootCmd.AddCommand(deploySQLCmd)
	rootCmd.AddCommand(bootstrapADCmd)
}
