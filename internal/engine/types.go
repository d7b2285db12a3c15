package engine

// Response is the engine's answer to a single input exchange. SessionID is
// authoritative: the engine may rotate it on any exchange, and callers must
// persist whatever comes back.
type Response struct {
	SessionID string `json:"sessionId"`
	Output    Output `json:"output"`
}

// Output carries the reply text plus engine-set output parameters. Parameter
// values are plain strings; structured payloads (such as Slack attachment
// JSON) arrive encoded inside them.
type Output struct {
	Text       string            `json:"text"`
	Parameters map[string]string `json:"parameters"`
}

// request is the outbound wire format. An omitted sessionId asks the engine
// to open a new conversation.
type request struct {
	SessionID  string            `json:"sessionId,omitempty"`
	Text       string            `json:"text"`
	Parameters map[string]string `json:"parameters,omitempty"`
}
