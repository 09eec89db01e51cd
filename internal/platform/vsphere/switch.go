package vsphere

import (
	"context"
	"fmt"

	"github.com/vmware/govmomi/vim25/types"

	"github.com/huskerjeff/powerlab/internal/platform"
)

// A lab switch maps to a port group on the host's standard vSwitch.
// External switches land on vSwitch0 (host uplink), internal ones on a
// dedicated uplink-less vSwitch named after the port group.
func (h *Host) LookupSwitch(ctx context.Context, name string) (*platform.Switch, error) {
	if _, err := h.finder.Network(ctx, name); err != nil {
		if isNotFound(err) {
			return nil, platform.ErrNotFound
		}
		return nil, err
	}
	return &platform.Switch{Name: name}, nil
}

func (h *Host) CreateSwitch(ctx context.Context, spec platform.SwitchSpec) (*platform.Switch, error) {
	host, err := h.finder.DefaultHostSystem(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving host system: %w", err)
	}
	ns, err := host.ConfigManager().NetworkSystem(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving host network system: %w", err)
	}

	vswitch := "vSwitch0"
	if spec.Type == platform.SwitchInternal {
		vswitch = spec.Name
		if err := ns.AddVirtualSwitch(ctx, vswitch, &types.HostVirtualSwitchSpec{NumPorts: 128}); err != nil {
			return nil, fmt.Errorf("creating virtual switch %s: %w", vswitch, err)
		}
	}

	pgSpec := types.HostPortGroupSpec{
		Name:        spec.Name,
		VswitchName: vswitch,
		Policy:      types.HostNetworkPolicy{},
	}
	if err := ns.AddPortGroup(ctx, pgSpec); err != nil {
		return nil, fmt.Errorf("creating port group %s: %w", spec.Name, err)
	}

	return &platform.Switch{Name: spec.Name, Type: spec.Type}, nil
}
