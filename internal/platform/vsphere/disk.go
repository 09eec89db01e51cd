package vsphere

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/huskerjeff/powerlab/internal/platform"
)

// dsPath renders a datastore-relative file path in vSphere notation,
// e.g. "[datastore1] powerlab/SQLSRV.vmdk".
func (h *Host) dsPath(p string) string {
	if strings.HasPrefix(p, "[") {
		return p
	}
	return fmt.Sprintf("[%s] %s", h.datastore.Name(), strings.TrimPrefix(p, "/"))
}

func (h *Host) LookupDisk(ctx context.Context, diskPath string) (*platform.Disk, error) {
	full := h.dsPath(diskPath)
	var dp object.DatastorePath
	dp.FromString(full)

	if _, err := h.datastore.Stat(ctx, dp.Path); err != nil {
		return nil, platform.ErrNotFound
	}
	return &platform.Disk{Name: path.Base(dp.Path), Path: full}, nil
}

func (h *Host) CreateDisk(ctx context.Context, spec platform.DiskSpec) (*platform.Disk, error) {
	diskType := string(types.VirtualDiskTypeThin)
	if spec.Sizing == platform.DiskFixed {
		diskType = string(types.VirtualDiskTypePreallocated)
	}

	mgr := object.NewVirtualDiskManager(h.client.Client)
	full := h.dsPath(spec.Path)
	task, err := mgr.CreateVirtualDisk(ctx, full, h.datacenter, &types.FileBackedVirtualDiskSpec{
		VirtualDiskSpec: types.VirtualDiskSpec{
			DiskType:    diskType,
			AdapterType: string(types.VirtualDiskAdapterTypeLsiLogic),
		},
		CapacityKb: spec.SizeGB * 1024 * 1024,
	})
	if err != nil {
		return nil, err
	}
	if err := task.Wait(ctx); err != nil {
		return nil, err
	}

	return &platform.Disk{
		Name:   spec.Name,
		Path:   full,
		SizeGB: spec.SizeGB,
		Sizing: spec.Sizing,
	}, nil
}

func (h *Host) AttachedDisks(ctx context.Context, vmName string) ([]string, error) {
	vm, err := h.finder.VirtualMachine(ctx, vmName)
	if err != nil {
		if isNotFound(err) {
			return nil, platform.ErrNotFound
		}
		return nil, err
	}

	devices, err := vm.Device(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing devices of %s: %w", vmName, err)
	}

	var paths []string
	for _, dev := range devices.SelectByType((*types.VirtualDisk)(nil)) {
		disk := dev.(*types.VirtualDisk)
		if backing, ok := disk.Backing.(*types.VirtualDiskFlatVer2BackingInfo); ok {
			paths = append(paths, backing.FileName)
		}
	}
	return paths, nil
}

func (h *Host) AttachDisk(ctx context.Context, vmName, diskPath string) error {
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
	controller, err := devices.FindDiskController("")
	if err != nil {
		return fmt.Errorf("no disk controller on %s: %w", vmName, err)
	}

	disk := devices.CreateDisk(controller, h.datastore.Reference(), h.dsPath(diskPath))
	return vm.AddDevice(ctx, disk)
}
