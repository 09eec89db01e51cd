// Package remote is the command-and-file channel into a lab guest. A
// Session is opened per operation and closed by the caller when the
// operation ends, success or not.
package remote

import (
	"context"
	"fmt"
)

type Credential struct {
	Username string
	Password string
}

// Session executes commands and transfers files inside one guest.
type Session interface {
	Run(ctx context.Context, command string) (string, error)
	Upload(localPath, remotePath string) error
	Delete(remotePath string) error
	Close() error
}

// Dialer opens sessions to named targets.
type Dialer interface {
	Dial(ctx context.Context, target string, cred Credential) (Session, error)
}

// SessionError covers session open, transfer and invoke failures. The
// transport's message passes through unchanged.
type SessionError struct {
	error
}

func NewSessionError(target string, cause error) *SessionError {
	return &SessionError{fmt.Errorf("session to %s: %w", target, cause)}
}

func (e *SessionError) Unwrap() error {
	return e.error
}
