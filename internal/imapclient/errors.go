package imapclient

import (
	"errors"
	"fmt"
)

// Kind classifies session errors so callers can pick a recovery policy
// without depending on the protocol library's error values.
type Kind int

const (
	// KindConnectivity covers failures to reach or negotiate with the server.
	KindConnectivity Kind = iota + 1
	// KindAuth covers rejected credentials.
	KindAuth
	// KindProtocol covers failures of individual commands on an open session.
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindAuth:
		return "auth"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// SessionError tags an underlying IMAP error with the command that produced
// it and a Kind.
type SessionError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("imap %s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

func wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &SessionError{Kind: kind, Op: op, Err: err}
}

func isKind(err error, kind Kind) bool {
	var se *SessionError
	return errors.As(err, &se) && se.Kind == kind
}

// IsAuth reports whether err was caused by rejected credentials.
func IsAuth(err error) bool { return isKind(err, KindAuth) }

// IsConnectivity reports whether err was caused by a connection failure.
func IsConnectivity(err error) bool { return isKind(err, KindConnectivity) }

// IsProtocol reports whether err was caused by a command on an open session.
func IsProtocol(err error) bool { return isKind(err, KindProtocol) }
