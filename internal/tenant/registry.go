// Package tenant tracks per-workspace bot credentials for multi-workspace
// installs and exposes the OAuth flow that populates them.
package tenant

import (
	"errors"
	"sync"

	"github.com/slack-go/slack"

	"chatrelay/internal/relay"
)

// ErrNoCredential is returned when no bot token is registered for a team.
// The dispatcher logs it as missing authorization and drops the event.
var ErrNoCredential = errors.New("no bot credential registered for team")

// Credential is one workspace installation.
type Credential struct {
	TeamID   string
	TeamName string
	BotToken string
}

// Registry holds installed-workspace credentials for the process lifetime.
// Nothing is persisted: a restart loses all installations and workspaces must
// reinstall.
type Registry struct {
	mu      sync.RWMutex
	creds   map[string]Credential
	clients map[string]*slack.Client
}

// NewRegistry creates an empty credential registry.
func NewRegistry() *Registry {
	return &Registry{
		creds:   make(map[string]Credential),
		clients: make(map[string]*slack.Client),
	}
}

// Put registers (or replaces) a workspace credential. Any cached client is
// discarded since the token may have rotated.
func (r *Registry) Put(cred Credential) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds[cred.TeamID] = cred
	delete(r.clients, cred.TeamID)
}

// Get looks up the credential for a team.
func (r *Registry) Get(teamID string) (Credential, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cred, ok := r.creds[teamID]
	return cred, ok
}

// ClientFor returns the Slack client for a team, building and caching it on
// first use. Implements relay.Resolver.
func (r *Registry) ClientFor(teamID string) (relay.MessagePoster, error) {
	r.mu.RLock()
	if client, ok := r.clients[teamID]; ok {
		r.mu.RUnlock()
		return client, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if client, ok := r.clients[teamID]; ok {
		return client, nil
	}
	cred, ok := r.creds[teamID]
	if !ok {
		return nil, ErrNoCredential
	}
	client := slack.New(cred.BotToken)
	r.clients[teamID] = client
	return client, nil
}
