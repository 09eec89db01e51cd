// Package installer drives an unattended database-server installation
// inside a lab guest: transfer the prepared answer file and the install
// medium, mount, run setup, dismount. Artifacts and the session are
// released on every exit path; cleanup problems are logged and never mask
// the install error itself.
package installer

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/huskerjeff/powerlab/internal/answerfile"
	"github.com/huskerjeff/powerlab/internal/remote"
)

type Config struct {
	// TemplatePath is the local answer-file template.
	TemplatePath string
	// MediaPath is the local installer ISO.
	MediaPath string
	// RemoteDir is the guest directory artifacts are staged in.
	RemoteDir string
}

type Target struct {
	VMName     string
	Credential remote.Credential
	Values     answerfile.Values
}

type Dispatcher struct {
	dialer remote.Dialer
	cfg    Config
}

func NewDispatcher(dialer remote.Dialer, cfg Config) *Dispatcher {
	return &Dispatcher{dialer: dialer, cfg: cfg}
}

// Install runs the full dispatch sequence against one guest. Errors from
// any step surface unchanged to the caller, but only after cleanup has
// had its chance.
func (d *Dispatcher) Install(ctx context.Context, target Target) error {
	sess, err := d.dialer.Dial(ctx, target.VMName, target.Credential)
	if err != nil {
		return err
	}

	remoteConfig := path.Join(d.cfg.RemoteDir, "sqlserver.ini")
	remoteMedia := path.Join(d.cfg.RemoteDir, path.Base(d.cfg.MediaPath))
	defer d.cleanup(sess, target.VMName, remoteConfig, remoteMedia)

	text, err := answerfile.Render(d.cfg.TemplatePath, target.Values)
	if err != nil {
		return err
	}
	localConfig, removeTemp, err := answerfile.WriteTemp(text)
	if err != nil {
		return err
	}
	defer removeTemp()

	zap.S().Named("installer").Infof("transferring answer file to %s", target.VMName)
	if err := sess.Upload(localConfig, remoteConfig); err != nil {
		return err
	}
	zap.S().Named("installer").Infof("transferring install medium to %s", target.VMName)
	if err := sess.Upload(d.cfg.MediaPath, remoteMedia); err != nil {
		return err
	}

	zap.S().Named("installer").Infof("running installer on %s", target.VMName)
	output, err := sess.Run(ctx, installCommand(remoteMedia, remoteConfig))
	if err != nil {
		return fmt.Errorf("remote install on %s: %w (output: %s)", target.VMName, err, strings.TrimSpace(output))
	}
	return nil
}

// installCommand mounts the medium, runs setup against the transferred
// configuration, dismounts, and exits with setup's own exit code so a
// failed install is not silently trusted.
func installCommand(mediaPath, configPath string) string {
	script := strings.Join([]string{
		fmt.Sprintf(`$image = Mount-DiskImage -ImagePath '%s' -PassThru`, mediaPath),
		`$drive = ($image | Get-Volume).DriveLetter`,
		fmt.Sprintf(`$setup = Start-Process -FilePath ($drive + ':\setup.exe') -ArgumentList '/ConfigurationFile=%s' -Wait -PassThru`, configPath),
		fmt.Sprintf(`Dismount-DiskImage -ImagePath '%s' | Out-Null`, mediaPath),
		`exit $setup.ExitCode`,
	}, "; ")
	return fmt.Sprintf(`powershell -NoProfile -NonInteractive -Command "%s"`, script)
}

func (d *Dispatcher) cleanup(sess remote.Session, vmName string, remotePaths ...string) {
	for _, p := range remotePaths {
		if err := sess.Delete(p); err != nil {
			zap.S().Named("installer").Warnf("cleanup of %s on %s failed: %v", p, vmName, err)
		}
	}
	if err := sess.Close(); err != nil {
		zap.S().Named("installer").Warnf("closing session to %s failed: %v", vmName, err)
	}
}
