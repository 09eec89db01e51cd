package osinstall_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huskerjeff/powerlab/internal/osinstall"
	"github.com/huskerjeff/powerlab/internal/platform"
	"github.com/huskerjeff/powerlab/internal/platform/fake"
)

func newInstaller(host platform.Platform) *osinstall.Installer {
	return osinstall.NewInstaller(host, osinstall.Config{
		ISORoot:    "ISOs",
		VHDPath:    "VHDs",
		DiskSizeGB: 50,
		DiskSizing: platform.DiskDynamic,
	})
}

func TestInstallRejectsUnknownSelectorBeforeAnyCall(t *testing.T) {
	host := fake.New()
	err := newInstaller(host).Install(context.Background(), osinstall.Spec{
		VMName:          "LABDC",
		OperatingSystem: "Server 1999",
	})
	require.Error(t, err)

	var unsupported *osinstall.UnsupportedInputError
	assert.True(t, errors.As(err, &unsupported))
	assert.Equal(t, 0, host.TotalCalls(), "rejection must precede any platform operation")
}

func TestInstallStagesDiskMediumAndBootOrder(t *testing.T) {
	host := fake.New()
	_, err := host.CreateVM(context.Background(), platform.VMSpec{Name: "LABDC"})
	require.NoError(t, err)

	require.NoError(t, newInstaller(host).Install(context.Background(), osinstall.Spec{
		VMName:          "LABDC",
		OperatingSystem: "Server 2019",
	}))

	assert.Equal(t, 1, host.CallCount("CreateDisk"))
	assert.Equal(t, 1, host.CallCount("AttachDisk"))
	assert.Equal(t, "ISOs/en_windows_server_2019_x64_dvd.iso", host.Mounted["LABDC"])
	assert.Equal(t, []platform.BootDevice{platform.BootCD, platform.BootDisk}, host.BootOrders["LABDC"])
}

func TestInstallTwiceCreatesDiskOnce(t *testing.T) {
	host := fake.New()
	_, err := host.CreateVM(context.Background(), platform.VMSpec{Name: "LABDC"})
	require.NoError(t, err)

	inst := newInstaller(host)
	for i := 0; i < 2; i++ {
		require.NoError(t, inst.Install(context.Background(), osinstall.Spec{
			VMName:          "LABDC",
			OperatingSystem: "Server 2019",
		}))
	}
	assert.Equal(t, 1, host.CallCount("CreateDisk"))
}
