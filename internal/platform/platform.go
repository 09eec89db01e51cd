// Package platform defines the contract this tool requires from the
// virtualization host. Every resource is addressed by name; lookups that
// miss return ErrNotFound so callers can tell "absent" from "broken".
package platform

import "context"

type SwitchType string

const (
	SwitchExternal SwitchType = "External"
	SwitchInternal SwitchType = "Internal"
)

type Switch struct {
	Name string
	Type SwitchType
}

type VM struct {
	Name       string
	Path       string
	MemoryMB   int64
	SwitchName string
	Generation int
	ID         string
}

type DiskSizing string

const (
	DiskDynamic DiskSizing = "Dynamic"
	DiskFixed   DiskSizing = "Fixed"
)

type Disk struct {
	Name   string
	Path   string
	SizeGB int64
	Sizing DiskSizing
}

type SwitchSpec struct {
	Name string
	Type SwitchType
}

type VMSpec struct {
	Name       string
	Path       string
	MemoryMB   int64
	SwitchName string
	Generation int
}

type DiskSpec struct {
	Name   string
	Path   string
	SizeGB int64
	Sizing DiskSizing
}

// BootDevice is a firmware boot entry, ordered first to last.
type BootDevice string

const (
	BootDisk    BootDevice = "disk"
	BootCD      BootDevice = "cdrom"
	BootNetwork BootDevice = "network"
)

type Platform interface {
	LookupSwitch(ctx context.Context, name string) (*Switch, error)
	CreateSwitch(ctx context.Context, spec SwitchSpec) (*Switch, error)

	LookupVM(ctx context.Context, name string) (*VM, error)
	CreateVM(ctx context.Context, spec VMSpec) (*VM, error)

	LookupDisk(ctx context.Context, path string) (*Disk, error)
	CreateDisk(ctx context.Context, spec DiskSpec) (*Disk, error)

	// AttachedDisks returns the file paths of every disk drive currently
	// wired to the named VM.
	AttachedDisks(ctx context.Context, vmName string) ([]string, error)
	AttachDisk(ctx context.Context, vmName, diskPath string) error

	SetBootOrder(ctx context.Context, vmName string, order []BootDevice) error

	MountMedium(ctx context.Context, vmName, isoPath string) error
	DismountMedium(ctx context.Context, vmName string) error
}
