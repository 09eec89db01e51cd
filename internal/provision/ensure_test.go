package provision_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huskerjeff/powerlab/internal/platform"
	"github.com/huskerjeff/powerlab/internal/platform/fake"
	"github.com/huskerjeff/powerlab/internal/provision"
)

func TestEnsureSwitchTwiceCreatesOnce(t *testing.T) {
	host := fake.New()
	ensurer := provision.NewEnsurer(host)
	spec := platform.SwitchSpec{Name: "PowerLab", Type: platform.SwitchExternal}

	for i := 0; i < 2; i++ {
		sw, err := ensurer.Switch(context.Background(), spec)
		require.NoError(t, err)
		assert.Equal(t, "PowerLab", sw.Name)
	}
	assert.Equal(t, 1, host.CallCount("CreateSwitch"))
}

func TestEnsureVMTwiceCreatesOnce(t *testing.T) {
	host := fake.New()
	ensurer := provision.NewEnsurer(host)
	spec := platform.VMSpec{Name: "LABDC", MemoryMB: 4096, Generation: 2}

	for i := 0; i < 2; i++ {
		vm, err := ensurer.VM(context.Background(), spec)
		require.NoError(t, err)
		assert.Equal(t, "LABDC", vm.Name)
	}
	assert.Equal(t, 1, host.CallCount("CreateVM"))
}

func TestEnsureVMPropagatesPlatformRefusal(t *testing.T) {
	host := fake.New()
	host.Fail["CreateVM"] = errors.New("memory out of range")

	_, err := provision.NewEnsurer(host).VM(context.Background(), platform.VMSpec{Name: "LABDC"})
	require.Error(t, err)

	var pErr *provision.ProvisioningError
	assert.True(t, errors.As(err, &pErr))
	assert.Contains(t, err.Error(), "memory out of range")
}

func TestEnsureDiskTwiceCreatesAndAttachesOnce(t *testing.T) {
	host := fake.New()
	_, err := host.CreateVM(context.Background(), platform.VMSpec{Name: "SQLSRV"})
	require.NoError(t, err)

	ensurer := provision.NewEnsurer(host)
	spec := platform.DiskSpec{Name: "SQLSRV", Path: "VHDs/SQLSRV.vmdk", SizeGB: 50, Sizing: platform.DiskDynamic}

	for i := 0; i < 2; i++ {
		disk, err := ensurer.Disk(context.Background(), spec, "SQLSRV")
		require.NoError(t, err)
		assert.Equal(t, "VHDs/SQLSRV.vmdk", disk.Path)
	}
	assert.Equal(t, 1, host.CallCount("CreateDisk"))
	assert.Equal(t, 1, host.CallCount("AttachDisk"))
}

func TestEnsureDiskSkipsAttachWhenDrivePresent(t *testing.T) {
	host := fake.New()
	_, err := host.CreateVM(context.Background(), platform.VMSpec{Name: "SQLSRV"})
	require.NoError(t, err)
	require.NoError(t, host.AttachDisk(context.Background(), "SQLSRV", "VHDs/SQLSRV.vmdk"))

	spec := platform.DiskSpec{Name: "SQLSRV", Path: "VHDs/SQLSRV.vmdk", SizeGB: 50}
	_, err = provision.NewEnsurer(host).Disk(context.Background(), spec, "SQLSRV")
	require.NoError(t, err)

	assert.Equal(t, 1, host.CallCount("AttachDisk")) // only the seeding call above
}

func TestEnsureDiskMissingVMIsNotFatal(t *testing.T) {
	host := fake.New()
	spec := platform.DiskSpec{Name: "orphan", Path: "VHDs/orphan.vmdk", SizeGB: 10}

	disk, err := provision.NewEnsurer(host).Disk(context.Background(), spec, "GHOST")
	require.NoError(t, err)
	assert.Equal(t, "VHDs/orphan.vmdk", disk.Path)
	assert.Equal(t, 0, host.CallCount("AttachDisk"))
}
