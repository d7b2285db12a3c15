package relay

import (
	"context"
	"log"

	"chatrelay/internal/engine"
	"chatrelay/internal/session"
)

// channelTag is sent to the engine with every input so conversation flows can
// branch on the originating platform.
const channelTag = "slack"

// Dispatcher owns the inbound pipeline: filter, session lookup, engine
// exchange, reply delivery. All collaborators are injected; any step's
// failure ends processing for that single event and is logged, never
// propagated back to the webhook handler.
type Dispatcher struct {
	sessions session.Store
	gateway  engine.Gateway
	resolver Resolver
}

// NewDispatcher creates a dispatcher over the given store, engine gateway and
// client resolver.
func NewDispatcher(sessions session.Store, gateway engine.Gateway, resolver Resolver) *Dispatcher {
	return &Dispatcher{
		sessions: sessions,
		gateway:  gateway,
		resolver: resolver,
	}
}

// Dispatch runs one inbound event to completion. The webhook handler has
// already acknowledged the delivery by the time this runs.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	switch {
	case ev.SubType != "":
		// Edits, joins, bot_message and other system subtypes.
		return
	case ev.BotID != "":
		// Loop prevention: never answer bot-authored messages.
		return
	case ev.Retry:
		// Slack redelivers on slow acks; the first delivery already ran.
		return
	}

	poster, err := d.resolver.ClientFor(ev.TeamID)
	if err != nil {
		log.Printf("[relay] missing authorization for team %q: %v", ev.TeamID, err)
		return
	}

	key := ev.ConversationKey()
	sessionID, err := d.sessions.Get(ctx, key)
	if err != nil {
		log.Printf("[relay] session lookup for %s: %v", key, err)
		return
	}

	log.Printf("[relay] got message %q from %s in %s", ev.Text, ev.User, key)

	resp, err := d.gateway.SendInput(ctx, sessionID, ev.Text, map[string]string{"channel": channelTag})
	if err != nil {
		log.Printf("[relay] engine exchange for %s: %v", key, err)
		return
	}

	// The engine may rotate the token on any exchange; persist unconditionally.
	if err := d.sessions.Set(ctx, key, resp.SessionID); err != nil {
		// Losing the mapping only costs conversation continuity; still reply.
		log.Printf("[relay] session save for %s: %v", key, err)
	}

	msg := BuildMessage(ev.Channel, resp.Output)
	ts, err := PostMessage(ctx, poster, msg)
	if err != nil {
		log.Printf("[relay] posting reply to %s: %v", ev.Channel, err)
		return
	}
	log.Printf("[relay] replied in %s at %s", ev.Channel, ts)
}
