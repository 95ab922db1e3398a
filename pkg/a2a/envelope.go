package a2a

const (
	RoleUser  = "user"
	RoleAgent = "agent"

	ContentTypeText = "text"
)

// AgentIdentity identifies one agent instance. Exactly one identity is
// "self" for a running service; self is never stored in the Registry.
type AgentIdentity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	URL      string `json:"url,omitempty"`
}

type MessageContent struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// MessageEnvelope is the A2A wire unit. Envelopes are treated as immutable:
// a response is always a newly constructed envelope, never a mutation of the
// inbound one. ConversationID is an opaque correlation token and must survive
// forwarding unchanged.
type MessageEnvelope struct {
	Content        MessageContent `json:"content"`
	Role           string         `json:"role"`
	ConversationID string         `json:"conversation_id"`
	Sender         *AgentIdentity `json:"sender,omitempty"`
}

// Validate reports a MalformedEnvelopeError when required fields are missing.
func (e MessageEnvelope) Validate() error {
	if e.Content.Text == "" {
		return &MalformedEnvelopeError{Field: "content.text"}
	}
	if e.Role != RoleUser && e.Role != RoleAgent {
		return &MalformedEnvelopeError{Field: "role"}
	}
	return nil
}

// NewAgentReply constructs the outbound envelope for a completed exchange,
// carrying the caller's conversation id and self as the sender.
func NewAgentReply(self AgentIdentity, conversationID, text string) MessageEnvelope {
	sender := self
	return MessageEnvelope{
		Content:        MessageContent{Text: text, Type: ContentTypeText},
		Role:           RoleAgent,
		ConversationID: conversationID,
		Sender:         &sender,
	}
}
