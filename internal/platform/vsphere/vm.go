package vsphere

import (
	"context"
	"fmt"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/huskerjeff/powerlab/internal/platform"
)

func (h *Host) LookupVM(ctx context.Context, name string) (*platform.VM, error) {
	vm, err := h.finder.VirtualMachine(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return nil, platform.ErrNotFound
		}
		return nil, err
	}

	var props mo.VirtualMachine
	if err := vm.Properties(ctx, vm.Reference(), []string{"config"}, &props); err != nil {
		return nil, fmt.Errorf("reading VM config: %w", err)
	}

	out := &platform.VM{Name: name, ID: vm.Reference().Value}
	if props.Config != nil {
		out.MemoryMB = int64(props.Config.Hardware.MemoryMB)
		out.Path = props.Config.Files.VmPathName
		if props.Config.Firmware == string(types.GuestOsDescriptorFirmwareTypeEfi) {
			out.Generation = 2
		} else {
			out.Generation = 1
		}
	}
	return out, nil
}

func (h *Host) CreateVM(ctx context.Context, spec platform.VMSpec) (*platform.VM, error) {
	folders, err := h.datacenter.Folders(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving VM folder: %w", err)
	}

	configSpec := types.VirtualMachineConfigSpec{
		Name:     spec.Name,
		GuestId:  string(types.VirtualMachineGuestOsIdentifierWindows9Server64Guest),
		MemoryMB: spec.MemoryMB,
		NumCPUs:  2,
		Files: &types.VirtualMachineFileInfo{
			VmPathName: fmt.Sprintf("[%s] %s", h.datastore.Name(), spec.Name),
		},
	}
	// Generation 2 in Hyper-V terms: EFI firmware.
	if spec.Generation >= 2 {
		configSpec.Firmware = string(types.GuestOsDescriptorFirmwareTypeEfi)
	} else {
		configSpec.Firmware = string(types.GuestOsDescriptorFirmwareTypeBios)
	}

	if spec.SwitchName != "" {
		nic := &types.VirtualVmxnet3{
			VirtualVmxnet: types.VirtualVmxnet{
				VirtualEthernetCard: types.VirtualEthernetCard{
					VirtualDevice: types.VirtualDevice{
						Key: -1,
						Backing: &types.VirtualEthernetCardNetworkBackingInfo{
							VirtualDeviceDeviceBackingInfo: types.VirtualDeviceDeviceBackingInfo{
								DeviceName: spec.SwitchName,
							},
						},
					},
					AddressType: string(types.VirtualEthernetCardMacTypeGenerated),
				},
			},
		}
		configSpec.DeviceChange = append(configSpec.DeviceChange, &types.VirtualDeviceConfigSpec{
			Operation: types.VirtualDeviceConfigSpecOperationAdd,
			Device:    nic,
		})
	}

	task, err := folders.VmFolder.CreateVM(ctx, configSpec, h.pool, nil)
	if err != nil {
		return nil, err
	}
	info, err := task.WaitForResult(ctx, nil)
	if err != nil {
		return nil, err
	}

	ref, _ := info.Result.(types.ManagedObjectReference)
	return &platform.VM{
		Name:       spec.Name,
		Path:       configSpec.Files.VmPathName,
		MemoryMB:   spec.MemoryMB,
		SwitchName: spec.SwitchName,
		Generation: spec.Generation,
		ID:         ref.Value,
	}, nil
}
