package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/huskerjeff/powerlab/internal/answerfile"
	"github.com/huskerjeff/powerlab/internal/installer"
	"github.com/huskerjeff/powerlab/internal/osinstall"
	"github.com/huskerjeff/powerlab/internal/platform"
	"github.com/huskerjeff/powerlab/internal/provision"
	"github.com/huskerjeff/powerlab/internal/remote"
	"github.com/huskerjeff/powerlab/internal/workflow"
)

var (
	sqlOSVersion   string
	sqlMediaPath   string
	sqlTemplate    string
	sqlSvcAccount  string
	sqlSvcPassword string
	sqlSysadmins   string
	sqlDomain      string
	sqlDomainUser  string
	sqlDomainPass  string
)

var deploySQLCmd = &cobra.Command{
	Use:   "deploy-sql [vm]",
	Short: "Create a VM, install its OS and SQL Server, optionally join a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, host, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer host.Close(cmd.Context())

		vmName := args[0]
		template := sqlTemplate
		if template == "" {
			template = filepath.Join(cfg.Lab.ProjectRoot, cfg.Lab.AnswerFileDir, "sqlserver.ini")
		}
		media := sqlMediaPath
		if media == "" {
			media = filepath.Join(cfg.Lab.ISORoot, "en_sql_server_2019_standard_x64_dvd.iso")
		}

		dialer := remote.NewSSHDialer(cfg.Guest.Port)
		ensurer := provision.NewEnsurer(host)
		osInstall := osinstall.NewInstaller(host, osinstall.Config{
			ISORoot:    cfg.Lab.ISORoot,
			VHDPath:    cfg.Lab.VHDPath,
			DiskSizeGB: cfg.Lab.VHDSizeGB,
			DiskSizing: platform.DiskSizing(cfg.Lab.VHDSizing),
		})
		dispatcher := installer.NewDispatcher(dialer, installer.Config{
			TemplatePath: template,
			MediaPath:    media,
			RemoteDir:    cfg.Guest.TempDir,
		})

		params := workflow.SQLServerParams{
			VMName: vmName,
			VMSpec: platform.VMSpec{
				Name:       vmName,
				Path:       cfg.Lab.VMPath,
				MemoryMB:   cfg.Lab.VMMemoryMB,
				SwitchName: cfg.Lab.SwitchName,
				Generation: cfg.Lab.VMGeneration,
			},
			OperatingSystem: sqlOSVersion,
			GuestCredential: remote.Credential{
				Username: cfg.Guest.Username,
				Password: cfg.Guest.Password,
			},
			SQLValues: answerfile.Values{
				ServiceAccount:   sqlSvcAccount,
				ServicePassword:  sqlSvcPassword,
				SysadminAccounts: sqlSysadmins,
			},
			DomainName: sqlDomain,
			DomainCredential: remote.Credential{
				Username: sqlDomainUser,
				Password: sqlDomainPass,
			},
		}
		return workflow.NewSQLServer(ensurer, osInstall, dispatcher, dialer).Deploy(cmd.Context(), params)
	},
}

func init() {
	deploySQLCmd.Flags().StringVar(&sqlOSVersion, "os", "Server 2019", "operating system for the VM")
	deploySQLCmd.Flags().StringVar(&sqlMediaPath, "media", "", "path to the SQL Server install ISO")
	deploySQLCmd.Flags().StringVar(&sqlTemplate, "template", "", "path to the answer file template")
	deploySQLCmd.Flags().StringVar(&sqlSvcAccount, "svc-account", "PowerLab\\SqlService", "SQL service account")
	deploySQLCmd.Flags().StringVar(&sqlSvcPassword, "svc-password", "", "SQL service account password")
	deploySQLCmd.Flags().StringVar(&sqlSysadmins, "sysadmins", "PowerLab\\Administrator", "sysadmin accounts")
	deploySQLCmd.Flags().StringVar(&sqlDomain, "domain", "", "domain to join after installation")
	deploySQLCmd.Flags().StringVar(&sqlDomainUser, "domain-user", "", "credential for the domain join")
	deploySQLCmd.Flags().StringVar(&sqlDomainPass, "domain-password", "", "password for the domain join")
}
