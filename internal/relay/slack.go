package relay

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// Slack events are small; cap abusive payloads.
const maxEventBody = 1 << 20

// EventSink receives decoded events for processing. The dispatcher implements
// it; tests substitute their own.
type EventSink interface {
	Dispatch(ctx context.Context, ev Event)
}

// SlackHandler terminates the Slack Events API webhook: signature check,
// URL-verification handshake, then hand-off to the dispatcher.
type SlackHandler struct {
	sink          EventSink
	signingSecret string
}

// NewSlackHandler creates the webhook handler. An empty signingSecret
// disables verification (tests only; Validate rejects it in production
// config).
func NewSlackHandler(sink EventSink, signingSecret string) *SlackHandler {
	return &SlackHandler{sink: sink, signingSecret: signingSecret}
}

// HandleEvent handles POST /slack/events. It always responds promptly: Slack
// redelivers anything slower than a few seconds, so the pipeline runs after
// the acknowledgment.
func (h *SlackHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if h.signingSecret != "" {
		if err := verifySignature(r.Header, h.signingSecret, body); err != nil {
			log.Printf("[relay] rejected unverified request from %s: %v", r.RemoteAddr, err)
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	eventsAPI, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	switch eventsAPI.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "invalid challenge", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(challenge.Challenge))

	case slackevents.CallbackEvent:
		msgEv, ok := eventsAPI.InnerEvent.Data.(*slackevents.MessageEvent)
		if !ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		ev := Event{
			TeamID:  eventsAPI.TeamID,
			Channel: msgEv.Channel,
			User:    msgEv.User,
			Text:    msgEv.Text,
			SubType: msgEv.SubType,
			BotID:   msgEv.BotID,
			Retry:   r.Header.Get("X-Slack-Retry-Num") != "",
		}
		w.WriteHeader(http.StatusOK)
		// The request context dies with the acknowledgment; the pipeline
		// gets its own.
		go h.sink.Dispatch(context.Background(), ev)

	default:
		w.WriteHeader(http.StatusOK)
	}
}

func verifySignature(header http.Header, secret string, body []byte) error {
	sv, err := slack.NewSecretsVerifier(header, secret)
	if err != nil {
		return err
	}
	if _, err := sv.Write(body); err != nil {
		return err
	}
	return sv.Ensure()
}
