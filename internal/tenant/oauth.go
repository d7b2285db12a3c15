package tenant

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack"
)

const (
	authorizeURL  = "https://slack.com/oauth/v2/authorize"
	stateLifetime = 10 * time.Minute
)

// installScopes are the bot scopes requested at install time: reading channel
// and DM messages, and posting replies.
var installScopes = []string{"chat:write", "channels:history", "im:history"}

// OAuthHandler implements the Slack OAuth v2 install flow. The token
// exchange itself is slack-go's; this handler only issues state nonces and
// stores the resulting credential.
type OAuthHandler struct {
	clientID     string
	clientSecret string
	redirectURL  string
	registry     *Registry
	httpc        *http.Client

	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

// NewOAuthHandler creates the install-flow handler writing into registry.
func NewOAuthHandler(clientID, clientSecret, redirectURL string, registry *Registry) *OAuthHandler {
	return &OAuthHandler{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		registry:     registry,
		httpc:        &http.Client{Timeout: 10 * time.Second},
		states:       make(map[string]time.Time),
		now:          time.Now,
	}
}

// HandleInstall handles GET /auth/slack: redirect the installer to the Slack
// consent screen with a fresh state nonce.
func (h *OAuthHandler) HandleInstall(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	h.mu.Lock()
	h.pruneLocked()
	h.states[state] = h.now().Add(stateLifetime)
	h.mu.Unlock()

	q := url.Values{}
	q.Set("client_id", h.clientID)
	q.Set("scope", strings.Join(installScopes, ","))
	q.Set("state", state)
	if h.redirectURL != "" {
		q.Set("redirect_uri", h.redirectURL)
	}
	http.Redirect(w, r, authorizeURL+"?"+q.Encode(), http.StatusFound)
}

// HandleCallback handles GET /auth/slack/callback: validate state, exchange
// the temporary code for a bot token, register the workspace.
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		log.Printf("[oauth] installation declined: %s", errParam)
		http.Error(w, "installation cancelled", http.StatusBadRequest)
		return
	}

	if !h.consumeState(query.Get("state")) {
		http.Error(w, "invalid state", http.StatusForbidden)
		return
	}

	code := query.Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	resp, err := slack.GetOAuthV2Response(h.httpc, h.clientID, h.clientSecret, code, h.redirectURL)
	if err != nil {
		log.Printf("[oauth] token exchange failed: %v", err)
		http.Error(w, "token exchange failed", http.StatusBadGateway)
		return
	}

	h.registry.Put(Credential{
		TeamID:   resp.Team.ID,
		TeamName: resp.Team.Name,
		BotToken: resp.AccessToken,
	})
	log.Printf("[oauth] installed into workspace %s (%s)", resp.Team.Name, resp.Team.ID)

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Installation complete. You can close this window.")
}

// consumeState validates a state nonce and removes it (single use).
func (h *OAuthHandler) consumeState(state string) bool {
	if state == "" {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	deadline, ok := h.states[state]
	if !ok {
		return false
	}
	delete(h.states, state)
	return h.now().Before(deadline)
}

// pruneLocked drops expired nonces. Caller holds h.mu.
func (h *OAuthHandler) pruneLocked() {
	now := h.now()
	for state, deadline := range h.states {
		if now.After(deadline) {
			delete(h.states, state)
		}
	}
}

// InstallURL is the "Add to Slack" link shown on the root page.
func InstallURL(clientID string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("scope", strings.Join(installScopes, ","))
	return authorizeURL + "?" + q.Encode()
}
