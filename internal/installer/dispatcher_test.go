package installer_test

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
	"github.com/huskerjeff/powerlab/internal/remote"
)

type fakeSession struct {
	runs    []string
	uploads []string
	deletes []string
	closes  int
	runErr  error
}

func (s *fakeSession) Run(ctx context.Context, command string) (string, error) {
	s.runs = append(s.runs, command)
	if s.runErr != nil {
		return "", s.runErr
	}
	return "", nil
}

func (s *fakeSession) Upload(local, remotePath string) error {
	s.uploads = append(s.uploads, remotePath)
	return nil
}

func (s *fakeSession) Delete(remotePath string) error {
	s.deletes = append(s.deletes, remotePath)
	return nil
}

func (s *fakeSession) Close() error {
	s.closes++
	return nil
}

type fakeDialer struct {
	sess    *fakeSession
	dialErr error
}

func (d *fakeDialer) Dial(ctx context.Context, target string, cred remote.Credential) (remote.Session, error) {
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	return d.sess, nil
}

func newDispatcher(t *testing.T, dialer remote.Dialer) *installer.Dispatcher {
	t.Helper()
	dir := t.TempDir()
	template := filepath.Join(dir, "sqlserver.ini")
	require.NoError(t, os.WriteFile(template, []byte("SQLSVCACCOUNT=\"\"\n"), 0o600))

	return installer.NewDispatcher(dialer, installer.Config{
		TemplatePath: template,
		MediaPath:    filepath.Join(dir, "sqlserver.iso"),
		RemoteDir:    "C:/Windows/Temp",
	})
}

func TestInstallHappyPath(t *testing.T) {
	sess := &fakeSession{}
	d := newDispatcher(t, &fakeDialer{sess: sess})

	err := d.Install(context.Background(), installer.Target{
		VMName: "SQLSRV",
		Values: answerfile.Values{ServiceAccount: "svc"},
	})
	require.NoError(t, err)

	assert.Len(t, sess.uploads, 2)
	require.Len(t, sess.runs, 1)
	assert.Contains(t, sess.runs[0], "Mount-DiskImage")
	assert.Contains(t, sess.runs[0], "Dismount-DiskImage")

	// cleanup ran exactly once
	assert.Equal(t, 1, sess.closes)
	assert.Len(t, sess.deletes, 2)
}

func TestInstallCleansUpOnRemoteFailure(t *testing.T) {
	sess := &fakeSession{runErr: errors.New("setup exited with code 2067919934")}
	d := newDispatcher(t, &fakeDialer{sess: sess})

	err := d.Install(context.Background(), installer.Target{VMName: "SQLSRV"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "2067919934"))

	// original error surfaces, but only after cleanup ran exactly once
	assert.Equal(t, 1, sess.closes)
	assert.Len(t, sess.deletes, 2)
}

func TestInstallDialFailureSkipsCleanup(t *testing.T) {
	dialErr := remote.NewSessionError("SQLSRV", errors.New("connection refused"))
	d := newDispatcher(t, &fakeDialer{dialErr: dialErr})

	err := d.Install(context.Background(), installer.Target{VMName: "SQLSRV"})
	require.Error(t, err)

	var sessErr *remote.SessionError
	assert.True(t, errors.As(err, &sessErr))
}
