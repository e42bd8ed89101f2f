package slackmessage

import "encoding/json"

// OutboundMessage is the chat.postMessage payload. Optional fields are nil
// when absent and are left out of the encoded JSON.
type OutboundMessage struct {
	Channel   string  `json:"channel"`
	IconEmoji *string `json:"icon_emoji,omitempty"` // e.g. ":robot_face:"
	Text      string  `json:"text"`
	Username  *string `json:"username,omitempty"`
	ThreadTS  *string `json:"thread_ts,omitempty"` // ts of the parent message
}

type Option func(*OutboundMessage)

func WithIconEmoji(icon *string) Option {
	return func(m *OutboundMessage) { m.IconEmoji = icon }
}

func WithUsername(username *string) Option {
	return func(m *OutboundMessage) { m.Username = username }
}

func WithThreadTS(ts *string) Option {
	return func(m *OutboundMessage) { m.ThreadTS = ts }
}

// New builds a message for channel. Empty channel or text is accepted here;
// callers that care validate before building.
func New(channel, text string, opts ...Option) OutboundMessage {
	msg := OutboundMessage{
		Channel: channel,
		Text:    text,
	}
	for _, opt := range opts {
		opt(&msg)
	}
	return msg
}

func (m OutboundMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}
