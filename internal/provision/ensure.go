// Package provision applies one pattern to every lab resource: look the
// resource up by name, create it only when absent, and never touch what
// already exists. Running the same ensure twice performs at most one
// creation call.
package provision

import (
	"context"

	"github.com/thoas/go-funk"
	"go.uber.org/zap"

	"github.com/huskerjeff/powerlab/internal/platform"
)

type Ensurer struct {
	host platform.Platform
}

func NewEnsurer(host platform.Platform) *Ensurer {
	return &Ensurer{host: host}
}

func (e *Ensurer) Switch(ctx context.Context, spec platform.SwitchSpec) (*platform.Switch, error) {
	sw, err := e.host.LookupSwitch(ctx, spec.Name)
	if err == nil {
		zap.S().Named("provision").Infof("switch %s already exists, skipping creation", spec.Name)
		return sw, nil
	}
	if !platform.IsNotFound(err) {
		return nil, err
	}

	sw, err = e.host.CreateSwitch(ctx, spec)
	if err != nil {
		return nil, NewProvisioningError("switch", spec.Name, err)
	}
	zap.S().Named("provision").Infof("created switch %s", spec.Name)
	return sw, nil
}

func (e *Ensurer) VM(ctx context.Context, spec platform.VMSpec) (*platform.VM, error) {
	vm, err := e.host.LookupVM(ctx, spec.Name)
	if err == nil {
		zap.S().Named("provision").Infof("VM %s already exists, skipping creation", spec.Name)
		return vm, nil
	}
	if !platform.IsNotFound(err) {
		return nil, err
	}

	vm, err = e.host.CreateVM(ctx, spec)
	if err != nil {
		return nil, NewProvisioningError("VM", spec.Name, err)
	}
	zap.S().Named("provision").Infof("created VM %s", spec.Name)
	return vm, nil
}

// Disk ensures the disk file exists and, when attachTo names a VM, that
// the VM has a drive pointing at it. A missing VM is a warning, not an
// error: the disk itself is still considered ensured.
func (e *Ensurer) Disk(ctx context.Context, spec platform.DiskSpec, attachTo string) (*platform.Disk, error) {
	disk, err := e.host.LookupDisk(ctx, spec.Path)
	switch {
	case err == nil:
		zap.S().Named("provision").Infof("disk %s already exists, skipping creation", spec.Path)
	case platform.IsNotFound(err):
		disk, err = e.host.CreateDisk(ctx, spec)
		if err != nil {
			return nil, NewProvisioningError("disk", spec.Name, err)
		}
		zap.S().Named("provision").Infof("created disk %s", disk.Path)
	default:
		return nil, err
	}

	if attachTo == "" {
		return disk, nil
	}

	attached, err := e.host.AttachedDisks(ctx, attachTo)
	if err != nil {
		if platform.IsNotFound(err) {
			zap.S().Named("provision").Warnf("VM %s not found, disk %s left unattached", attachTo, disk.Path)
			return disk, nil
		}
		return nil, err
	}
	if funk.ContainsString(attached, disk.Path) {
		zap.S().Named("provision").Infof("disk %s already attached to %s", disk.Path, attachTo)
		return disk, nil
	}

	if err := e.host.AttachDisk(ctx, attachTo, disk.Path); err != nil {
		return nil, NewProvisioningError("disk attachment", disk.Path, err)
	}
	zap.S().Named("provision").Infof("attached disk %s to %s", disk.Path, attachTo)
	return disk, nil
}
