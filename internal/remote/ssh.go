package remote

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SSHDialer opens password-authenticated SSH sessions on a fixed port.
type SSHDialer struct {
	Port string
}

func NewSSHDialer(port string) *SSHDialer {
	if port == "" {
		port = "22"
	}
	return &SSHDialer{Port: port}
}

func (d *SSHDialer) Dial(ctx context.Context, target string, cred Credential) (Session, error) {
	config := &ssh.ClientConfig{
		User: cred.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(cred.Password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	addr := net.JoinHostPort(target, d.Port)
	conn, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, NewSessionError(target, err)
	}
	return &sshSession{target: target, conn: conn}, nil
}

type sshSession struct {
	target string
	conn   *ssh.Client
}

func (s *sshSession) Run(ctx context.Context, command string) (string, error) {
	sess, err := s.conn.NewSession()
	if err != nil {
		return "", NewSessionError(s.target, err)
	}
	defer sess.Close()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = sess.Signal(ssh.SIGKILL)
		case <-done:
		}
	}()

	output, err := sess.CombinedOutput(command)
	close(done)
	if err != nil {
		return string(output), NewSessionError(s.target, fmt.Errorf("running %q: %w", command, err))
	}
	return string(output), nil
}

func (s *sshSession) Upload(localPath, remotePath string) error {
	client, err := sftp.NewClient(s.conn)
	if err != nil {
		return NewSessionError(s.target, err)
	}
	defer client.Close()

	f, err := os.Open(filepath.Clean(localPath))
	if err != nil {
		return fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer f.Close()

	remoteF, err := client.Create(remotePath)
	if err != nil {
		return NewSessionError(s.target, err)
	}
	defer remoteF.Close()

	if _, err := io.Copy(remoteF, f); err != nil {
		return NewSessionError(s.target, err)
	}
	return nil
}

func (s *sshSession) Delete(remotePath string) error {
	client, err := sftp.NewClient(s.conn)
	if err != nil {
		return NewSessionError(s.target, err)
	}
	defer client.Close()

	if err := client.Remove(remotePath); err != nil {
		return NewSessionError(s.target, err)
	}
	return nil
}

func (s *sshSession) Close() error {
	return s.conn.Close()
}
