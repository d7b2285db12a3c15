// Package relay drives inbound Slack events through the session store, the
// conversational engine, and back out to the originating channel.
package relay

import "github.com/slack-go/slack"

// Event is one inbound chat message after webhook decoding. SubType, BotID
// and Retry carry the raw signals the dispatcher filters on.
type Event struct {
	TeamID  string
	Channel string
	User    string
	Text    string
	SubType string
	BotID   string
	Retry   bool
}

// ConversationKey correlates the event with its engine session. Channel ids
// are unique within a workspace; multi-workspace installs qualify by team.
func (e Event) ConversationKey() string {
	if e.TeamID == "" {
		return e.Channel
	}
	return e.TeamID + ":" + e.Channel
}

// OutboundMessage is the reply posted back to Slack.
type OutboundMessage struct {
	Channel     string
	Text        string
	Attachments []slack.Attachment
}
