package session

import "context"

// Store maps a conversation key (a Slack channel id, optionally qualified by
// team for multi-workspace installs) to the opaque session token issued by
// the conversational engine. The engine owns the token lifecycle; the relay
// persists whatever comes back on every exchange.
//
// Get returns an empty token for a key it has never seen — that is how the
// caller learns it should start a fresh engine session, not an error. Only a
// backend failure produces an error, always a *StorageError.
//
// Set overwrites any prior token for the key (last-write-wins) and, on
// backends that support expiry, restarts the inactivity window.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, token string) error
}

// StorageError reports a session backend failure for a single operation.
type StorageError struct {
	Op  string // "get" or "set"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return "session " + e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }
