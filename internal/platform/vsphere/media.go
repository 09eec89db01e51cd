package vsphere

import (
	"context"
	"fmt"

	"github.com/vmware/govmomi/vim25/types"

	"github.com/huskerjeff/powerlab/internal/platform"
)

func (h *Host) MountMedium(ctx context.Context, vmName, isoPath string) error {
	vm, err := h.finder.VirtualMachine(ctx, vmName)
	if err != nil {
		if isNotFound(err) {
			return platform.ErrNotFound
		}
		return err
	}

	devices, err := vm.Device(ctx)
	if err != nil {
		return fmt.Errorf("listing devices of %s: %w", vmName, err)
	}

	cdrom, err := devices.FindCdrom("")
	if err != nil {
		ide, err := devices.FindIDEController("")
		if err != nil {
			return fmt.Errorf("no IDE controller on %s: %w", vmName, err)
		}
		cdrom, err = devices.CreateCdrom(ide)
		if err != nil {
			return fmt.Errorf("creating cdrom on %s: %w", vmName, err)
		}
		return vm.AddDevice(ctx, devices.InsertIso(cdrom, h.dsPath(isoPath)))
	}

	return vm.EditDevice(ctx, devices.InsertIso(cdrom, h.dsPath(isoPath)))
}

func (h *Host) DismountMedium(ctx context.Context, vmName string) error {
	vm, err := h.finder.VirtualMachine(ctx, vmName)
	if err != nil {
		if isNotFound(err) {
			return platform.ErrNotFound
		}
		return err
	}

	devices, err := vm.Device(ctx)
	if err != nil {
		return fmt.Errorf("listing devices of %s: %w", vmName, err)
	}
	cdrom, err := devices.FindCdrom("")
	if err != nil {
		return nil
	}
	return vm.EditDevice(ctx, devices.EjectIso(cdrom))
}

func (h *Host) SetBootOrder(ctx context.Context, vmName string, order []platform.BootDevice) error {
	vm, err := h.finder.VirtualMachine(ctx, vmName)
	if err != nil {
		if isNotFound(err) {
			return platform.ErrNotFound
		}
		return err
	}

	devices, err := vm.Device(ctx)
	if err != nil {
		return fmt.Errorf("listing devices of %s: %w", vmName, err)
	}

	var boot []types.BaseVirtualMachineBootOptionsBootableDevice
	for _, dev := range order {
		switch dev {
		case platform.BootDisk:
			for _, d := range devices.SelectByType((*types.VirtualDisk)(nil)) {
				boot = append(boot, &types.VirtualMachineBootOptionsBootableDiskDevice{
					DeviceKey: d.GetVirtualDevice().Key,
				})
				break
			}
		case platform.BootCD:
			boot = append(boot, &types.VirtualMachineBootOptionsBootableCdromDevice{})
		case platform.BootNetwork:
			for _, d := range devices.SelectByType((*types.VirtualEthernetCard)(nil)) {
				boot = append(boot, &types.VirtualMachineBootOptionsBootableEthernetDevice{
					DeviceKey: d.GetVirtualDevice().Key,
				})
				break
			}
		}
	}

	task, err := vm.Reconfigure(ctx, types.VirtualMachineConfigSpec{
		BootOptions: &types.VirtualMachineBootOptions{BootOrder: boot},
	})
	if err != nil {
		return err
	}
	return task.Wait(ctx)
}
