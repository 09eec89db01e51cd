// Package fake is an in-memory platform used by tests. It counts every
// call so idempotence assertions can check exactly how many creations a
// flow performed.
package fake

import (
	"context"
	"sync"

	"github.com/huskerjeff/powerlab/internal/platform"
)

type Platform struct {
	mu sync.Mutex

	Switches   map[string]*platform.Switch
	VMs        map[string]*platform.VM
	Disks      map[string]*platform.Disk
	Attached   map[string][]string
	Mounted    map[string]string
	BootOrders map[string][]platform.BootDevice

	Calls map[string]int
	// Fail forces the named operation to return the given error.
	Fail map[string]error
}

func New() *Platform {
	return &Platform{
		Switches:   make(map[string]*platform.Switch),
		VMs:        make(map[string]*platform.VM),
		Disks:      make(map[string]*platform.Disk),
		Attached:   make(map[string][]string),
		Mounted:    make(map[string]string),
		BootOrders: make(map[string][]platform.BootDevice),
		Calls:      make(map[string]int),
		Fail:       make(map[string]error),
	}
}

func (p *Platform) record(op string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls[op]++
	return p.Fail[op]
}

func (p *Platform) CallCount(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Calls[op]
}

func (p *Platform) TotalCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, n := range p.Calls {
		total += n
	}
	return total
}

func (p *Platform) LookupSwitch(ctx context.Context, name string) (*platform.Switch, error) {
	if err := p.record("LookupSwitch"); err != nil {
		return nil, err
	}
	if sw, ok := p.Switches[name]; ok {
		return sw, nil
	}
	return nil, platform.ErrNotFound
}

func (p *Platform) CreateSwitch(ctx context.Context, spec platform.SwitchSpec) (*platform.Switch, error) {
	if err := p.record("CreateSwitch"); err != nil {
		return nil, err
	}
	sw := &platform.Switch{Name: spec.Name, Type: spec.Type}
	p.Switches[spec.Name] = sw
	return sw, nil
}

func (p *Platform) LookupVM(ctx context.Context, name string) (*platform.VM, error) {
	if err := p.record("LookupVM"); err != nil {
		return nil, err
	}
	if vm, ok := p.VMs[name]; ok {
		return vm, nil
	}
	return nil, platform.ErrNotFound
}

func (p *Platform) CreateVM(ctx context.Context, spec platform.VMSpec) (*platform.VM, error) {
	if err := p.record("CreateVM"); err != nil {
		return nil, err
	}
	vm := &platform.VM{
		Name:       spec.Name,
		Path:       spec.Path,
		MemoryMB:   spec.MemoryMB,
		SwitchName: spec.SwitchName,
		Generation: spec.Generation,
	}
	p.VMs[spec.Name] = vm
	return vm, nil
}

func (p *Platform) LookupDisk(ctx context.Context, path string) (*platform.Disk, error) {
	if err := p.record("LookupDisk"); err != nil {
		return nil, err
	}
	if disk, ok := p.Disks[path]; ok {
		return disk, nil
	}
	return nil, platform.ErrNotFound
}

func (p *Platform) CreateDisk(ctx context.Context, spec platform.DiskSpec) (*platform.Disk, error) {
	if err := p.record("CreateDisk"); err != nil {
		return nil, err
	}
	disk := &platform.Disk{Name: spec.Name, Path: spec.Path, SizeGB: spec.SizeGB, Sizing: spec.Sizing}
	p.Disks[spec.Path] = disk
	return disk, nil
}

func (p *Platform) AttachedDisks(ctx context.Context, vmName string) ([]string, error) {
	if err := p.record("AttachedDisks"); err != nil {
		return nil, err
	}
	if _, ok := p.VMs[vmName]; !ok {
		return nil, platform.ErrNotFound
	}
	return p.Attached[vmName], nil
}

func (p *Platform) AttachDisk(ctx context.Context, vmName, diskPath string) error {
	if err := p.record("AttachDisk"); err != nil {
		return err
	}
	if _, ok := p.VMs[vmName]; !ok {
		return platform.ErrNotFound
	}
	p.Attached[vmName] = append(p.Attached[vmName], diskPath)
	return nil
}

func (p *Platform) SetBootOrder(ctx context.Context, vmName string, order []platform.BootDevice) error {
	if err := p.record("SetBootOrder"); err != nil {
		return err
	}
	p.BootOrders[vmName] = order
	return nil
}

func (p *Platform) MountMedium(ctx context.Context, vmName, isoPath string) error {
	if err := p.record("MountMedium"); err != nil {
		return err
	}
	p.Mounted[vmName] = isoPath
	return nil
}

func (p *Platform) DismountMedium(ctx context.Context, vmName string) error {
	if err := p.record("DismountMedium"); err != nil {
		return err
	}
	delete(p.Mounted, vmName)
	return nil
}
