package relay

import (
	"context"

	"github.com/slack-go/slack"
)

// MessagePoster is the slice of the Slack client the relay needs to deliver
// replies. *slack.Client satisfies it.
type MessagePoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Resolver maps a team id to the Slack client installed for that workspace.
// Single-workspace deployments use StaticResolver; multi-workspace
// deployments use the tenant registry.
type Resolver interface {
	ClientFor(teamID string) (MessagePoster, error)
}

// StaticResolver serves every event with one fixed bot client, ignoring the
// team id.
type StaticResolver struct {
	client MessagePoster
}

// NewStaticResolver wraps a single bot client.
func NewStaticResolver(client MessagePoster) *StaticResolver {
	return &StaticResolver{client: client}
}

func (s *StaticResolver) ClientFor(string) (MessagePoster, error) {
	return s.client, nil
}

// PostMessage delivers an outbound message and returns the Slack delivery
// timestamp.
func PostMessage(ctx context.Context, poster MessagePoster, msg OutboundMessage) (string, error) {
	opts := []slack.MsgOption{slack.MsgOptionText(msg.Text, false)}
	if len(msg.Attachments) > 0 {
		opts = append(opts, slack.MsgOptionAttachments(msg.Attachments...))
	}
	_, ts, err := poster.PostMessageContext(ctx, msg.Channel, opts...)
	return ts, err
}
