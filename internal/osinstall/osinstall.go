// Package osinstall prepares a VM to install its operating system from an
// unattended install medium: ensure the OS disk, mount the matching ISO,
// and point the firmware at the install media. The actual installation
// runs inside the guest once it boots.
package osinstall

import (
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/huskerjeff/powerlab/internal/platform"
	"github.com/huskerjeff/powerlab/internal/provision"
)

// UnsupportedInputError rejects an OS or edition selector with no known
// install medium. The rejection happens before any file or platform call.
type UnsupportedInputError struct {
	error
}

func NewUnsupportedInputError(selector string) *UnsupportedInputError {
	return &UnsupportedInputError{fmt.Errorf("unsupported operating system %q", selector)}
}

func (e *UnsupportedInputError) Unwrap() error {
	return e.error
}

// osImages maps OS selectors to their install media.
var osImages = map[string]string{
	"Server 2016": "en_windows_server_2016_x64_dvd.iso",
	"Server 2019": "en_windows_server_2019_x64_dvd.iso",
	"Server 2022": "en_windows_server_2022_x64_dvd.iso",
}

type Config struct {
	ISORoot    string
	VHDPath    string
	DiskSizeGB int64
	DiskSizing platform.DiskSizing
}

type Spec struct {
	VMName          string
	OperatingSystem string
}

type Installer struct {
	host    platform.Platform
	ensurer *provision.Ensurer
	cfg     Config
}

func NewInstaller(host platform.Platform, cfg Config) *Installer {
	return &Installer{
		host:    host,
		ensurer: provision.NewEnsurer(host),
		cfg:     cfg,
	}
}

// Install stages the unattended OS installation for one VM.
func (i *Installer) Install(ctx context.Context, spec Spec) error {
	iso, ok := osImages[spec.OperatingSystem]
	if !ok {
		return NewUnsupportedInputError(spec.OperatingSystem)
	}

	diskSpec := platform.DiskSpec{
		Name:   spec.VMName,
		Path:   path.Join(i.cfg.VHDPath, spec.VMName+".vmdk"),
		SizeGB: i.cfg.DiskSizeGB,
		Sizing: i.cfg.DiskSizing,
	}
	if _, err := i.ensurer.Disk(ctx, diskSpec, spec.VMName); err != nil {
		return err
	}

	isoPath := path.Join(i.cfg.ISORoot, iso)
	zap.S().Named("osinstall").Infof("mounting %s on %s", isoPath, spec.VMName)
	if err := i.host.MountMedium(ctx, spec.VMName, isoPath); err != nil {
		return err
	}

	return i.host.SetBootOrder(ctx, spec.VMName, []platform.BootDevice{platform.BootCD, platform.BootDisk})
}
