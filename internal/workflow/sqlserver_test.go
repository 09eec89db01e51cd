package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huskerjeff/powerlab/internal/answerfile"
	"github.com/huskerjeff/powerlab/internal/installer"
	"github.com/huskerjeff/powerlab/internal/osinstall"
	"github.com/huskerjeff/powerlab/internal/platform"
	"github.com/huskerjeff/powerlab/internal/platform/fake"
	"github.com/huskerjeff/powerlab/internal/provision"
	"github.com/huskerjeff/powerlab/internal/remote"
	"github.com/huskerjeff/powerlab/internal/workflow"
)

type fakeSession struct {
	runs   []string
	closes int
}

func (s *fakeSession) Run(ctx context.Context, command string) (string, error) {
	s.runs = append(s.runs, command)
	return "", nil
}

func (s *fakeSession) Upload(local, remotePath string) error { return nil }
func (s *fakeSession) Delete(remotePath string) error        { return nil }
func (s *fakeSession) Close() error                          { s.closes++; return nil }

type fakeDialer struct {
	sessions []*fakeSession
	dials    int
}

func (d *fakeDialer) Dial(ctx context.Context, target string, cred remote.Credential) (remote.Session, error) {
	d.dials++
	sess := &fakeSession{}
	d.sessions = append(d.sessions, sess)
	return sess, nil
}

func newWorkflow(t *testing.T, host platform.Platform, dialer remote.Dialer) *workflow.SQLServer {
	t.Helper()
	dir := t.TempDir()
	template := filepath.Join(dir, "sqlserver.ini")
	require.NoError(t, os.WriteFile(template, []byte("SQLSVCACCOUNT=\"\"\n"), 0o600))

	osInstall := osinstall.NewInstaller(host, osinstall.Config{
		ISORoot:    "ISOs",
		VHDPath:    "VHDs",
		DiskSizeGB: 50,
		DiskSizing: platform.DiskDynamic,
	})
	dispatcher := installer.NewDispatcher(dialer, installer.Config{
		TemplatePath: template,
		MediaPath:    filepath.Join(dir, "sqlserver.iso"),
		RemoteDir:    "C:/Windows/Temp",
	})
	return workflow.NewSQLServer(provision.NewEnsurer(host), osInstall, dispatcher, dialer)
}

func params(vmName string) workflow.SQLServerParams {
	return workflow.SQLServerParams{
		VMName:          vmName,
		VMSpec:          platform.VMSpec{Name: vmName, MemoryMB: 4096, Generation: 2},
		OperatingSystem: "Server 2019",
		GuestCredential: remote.Credential{Username: "Administrator", Password: "pw"},
		SQLValues:       answerfile.Values{ServiceAccount: "svc"},
	}
}

func TestDeploySequencesAllSteps(t *testing.T) {
	host := fake.New()
	dialer := &fakeDialer{}

	require.NoError(t, newWorkflow(t, host, dialer).Deploy(context.Background(), params("SQLSRV")))

	assert.Equal(t, 1, host.CallCount("CreateVM"))
	assert.Equal(t, 1, host.CallCount("CreateDisk"))
	assert.Equal(t, 1, host.CallCount("MountMedium"))
	require.Equal(t, 1, dialer.dials)
	require.Len(t, dialer.sessions[0].runs, 1)
	assert.Contains(t, dialer.sessions[0].runs[0], "setup.exe")
}

func TestDeployJoinsDomainWhenRequested(t *testing.T) {
	host := fake.New()
	dialer := &fakeDialer{}

	p := params("SQLSRV")
	p.DomainName = "powerlab.local"
	p.DomainCredential = remote.Credential{Username: "POWERLAB\\Administrator", Password: "pw"}

	require.NoError(t, newWorkflow(t, host, dialer).Deploy(context.Background(), p))

	// one session for the install, one for the join
	require.Equal(t, 2, dialer.dials)
	join := dialer.sessions[1]
	require.Len(t, join.runs, 1)
	assert.Contains(t, join.runs[0], "Add-Computer")
	assert.Contains(t, join.runs[0], "powerlab.local")
	assert.Equal(t, 1, join.closes)
}

func TestDeployAbortsOnUnsupportedOS(t *testing.T) {
	host := fake.New()
	dialer := &fakeDialer{}

	p := params("SQLSRV")
	p.OperatingSystem = "Server 1999"

	err := newWorkflow(t, host, dialer).Deploy(context.Background(), p)
	require.Error(t, err)

	var unsupported *osinstall.UnsupportedInputError
	assert.True(t, errors.As(err, &unsupported))
	// VM creation happened, nothing after the failing step did
	assert.Equal(t, 1, host.CallCount("CreateVM"))
	assert.Equal(t, 0, dialer.dials)
}

func TestDeployFailedVMCreateAbortsEverything(t *testing.T) {
	host := fake.New()
	host.Fail["CreateVM"] = errors.New("duplicate path")
	dialer := &fakeDialer{}

	err := newWorkflow(t, host, dialer).Deploy(context.Background(), params("SQLSRV"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "duplicate path"))
	assert.Equal(t, 0, host.CallCount("CreateDisk"))
	assert.Equal(t, 0, dialer.dials)
}
