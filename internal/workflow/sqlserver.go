// Package workflow composes the provisioning steps into end-to-end lab
// deployments. Composition is strictly sequential: a failing step aborts
// the rest and nothing already created is rolled back.
package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/huskerjeff/powerlab/internal/answerfile"
	"github.com/huskerjeff/powerlab/internal/installer"
	"github.com/huskerjeff/powerlab/internal/osinstall"
	"github.com/huskerjeff/powerlab/internal/platform"
	"github.com/huskerjeff/powerlab/internal/provision"
	"github.com/huskerjeff/powerlab/internal/remote"
)

// SQLServerParams describes one SQL Server lab deployment.
type SQLServerParams struct {
	VMName          string
	VMSpec          platform.VMSpec
	OperatingSystem string

	GuestCredential remote.Credential
	SQLValues       answerfile.Values

	// DomainName is optional; when set the VM joins that domain after
	// the installation using DomainCredential.
	DomainName       string
	DomainCredential remote.Credential
}

type SQLServer struct {
	ensurer    *provision.Ensurer
	osInstall  *osinstall.Installer
	dispatcher *installer.Dispatcher
	dialer     remote.Dialer
}

func NewSQLServer(ensurer *provision.Ensurer, osInstall *osinstall.Installer, dispatcher *installer.Dispatcher, dialer remote.Dialer) *SQLServer {
	return &SQLServer{
		ensurer:    ensurer,
		osInstall:  osInstall,
		dispatcher: dispatcher,
		dialer:     dialer,
	}
}

// Deploy provisions a VM, installs its OS and SQL Server, and optionally
// joins the VM to an existing domain.
func (w *SQLServer) Deploy(ctx context.Context, params SQLServerParams) error {
	if _, err := w.ensurer.VM(ctx, params.VMSpec); err != nil {
		return err
	}

	if err := w.osInstall.Install(ctx, osinstall.Spec{
		VMName:          params.VMName,
		OperatingSystem: params.OperatingSystem,
	}); err != nil {
		return err
	}

	if err := w.dispatcher.Install(ctx, installer.Target{
		VMName:     params.VMName,
		Credential: params.GuestCredential,
		Values:     params.SQLValues,
	}); err != nil {
		return err
	}

	if params.DomainName == "" {
		return nil
	}
	return w.joinDomain(ctx, params)
}

func (w *SQLServer) joinDomain(ctx context.Context, params SQLServerParams) error {
	sess, err := w.dialer.Dial(ctx, params.VMName, params.GuestCredential)
	if err != nil {
		return err
	}
	defer sess.Close()

	zap.S().Named("workflow").Infof("joining %s to domain %s", params.VMName, params.DomainName)
	command := fmt.Sprintf(
		`powershell -NoProfile -NonInteractive -Command "$p = ConvertTo-SecureString '%s' -AsPlainText -Force; $c = New-Object pscredential('%s', $p); Add-Computer -DomainName '%s' -Credential $c -Restart"`,
		params.DomainCredential.Password, params.DomainCredential.Username, params.DomainName,
	)
	if _, err := sess.Run(ctx, command); err != nil {
		return fmt.Errorf("joining %s to domain %s: %w", params.VMName, params.DomainName, err)
	}
	return nil
}
