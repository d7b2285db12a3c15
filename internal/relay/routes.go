package relay

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the Slack webhook endpoint on the given router.
func RegisterRoutes(r chi.Router, h *SlackHandler) {
	r.Post("/slack/events", h.HandleEvent)
}
