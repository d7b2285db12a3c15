package tenant

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the OAuth install endpoints on the given router.
func RegisterRoutes(r chi.Router, h *OAuthHandler) {
	r.Get("/auth/slack", h.HandleInstall)
	r.Get("/auth/slack/callback", h.HandleCallback)
}
