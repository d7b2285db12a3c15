package relay

import (
	"encoding/json"
	"log"

	"github.com/slack-go/slack"

	"chatrelay/internal/engine"
)

// attachmentParam is the engine output parameter that may carry Slack
// attachment JSON authored by the conversation flow.
const attachmentParam = "slack"

// BuildMessage assembles the Slack reply from engine output. A malformed
// attachment payload is logged and skipped so the text still goes out.
func BuildMessage(channel string, out engine.Output) OutboundMessage {
	msg := OutboundMessage{Channel: channel, Text: out.Text}

	raw, ok := out.Parameters[attachmentParam]
	if !ok || raw == "" {
		return msg
	}

	var att slack.Attachment
	if err := json.Unmarshal([]byte(raw), &att); err != nil {
		log.Printf("[relay] dropping malformed attachment for channel %s: %v", channel, err)
		return msg
	}
	msg.Attachments = []slack.Attachment{att}
	return msg
}
