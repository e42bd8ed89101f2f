package slackmessage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/slack-go/slack"
)

const unknownError = "unknown_error"

// InboundResponse is the chat.postMessage reply. OK is the only
// authoritative success signal; the HTTP status is not.
type InboundResponse struct {
	OK      bool           `json:"ok"`
	Channel string         `json:"channel,omitempty"`
	TS      string         `json:"ts,omitempty"`
	Error   string         `json:"error,omitempty"`
	Warning string         `json:"warning,omitempty"`
	Message *PostedMessage `json:"message,omitempty"`
}

// PostedMessage is the echo of the message as Slack stored it.
type PostedMessage struct {
	Type     string  `json:"type"`
	AppID    string  `json:"app_id,omitempty"`
	BotID    string  `json:"bot_id,omitempty"`
	Team     *string `json:"team,omitempty"`
	Text     string  `json:"text"`
	TS       string  `json:"ts"`
	User     *string `json:"user,omitempty"`
	Username string  `json:"username,omitempty"`
	Icons    *Icons  `json:"icons,omitempty"`
}

type Icons struct {
	Emoji string `json:"emoji"`
}

// MalformedResponseError reports a reply body that is not a
// chat.postMessage response. Body holds the raw bytes for diagnosis.
type MalformedResponseError struct {
	Body []byte
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v: %q", e.Err, e.Body)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

var (
	errMissingOK      = errors.New("missing field \"ok\"")
	errMissingChannel = errors.New("ok response without \"channel\"")
	errMissingTS      = errors.New("ok response without \"ts\"")
)

// Parse decodes a reply body. An ok:false reply is returned as data with a
// nil error; only undecodable bodies fail.
func Parse(raw []byte) (*InboundResponse, error) {
	var wire struct {
		InboundResponse
		OK *bool `json:"ok"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &MalformedResponseError{Body: raw, Err: err}
	}
	if wire.OK == nil {
		return nil, &MalformedResponseError{Body: raw, Err: errMissingOK}
	}

	res := wire.InboundResponse
	res.OK = *wire.OK
	if res.OK {
		if res.Channel == "" {
			return nil, &MalformedResponseError{Body: raw, Err: errMissingChannel}
		}
		if res.TS == "" {
			return nil, &MalformedResponseError{Body: raw, Err: errMissingTS}
		}
	}
	return &res, nil
}

// Err returns the API-level rejection carried by an ok:false reply, or nil.
func (r *InboundResponse) Err() error {
	if r.OK {
		return nil
	}
	code := r.Error
	if code == "" {
		code = unknownError
	}
	return slack.SlackErrorResponse{Err: code}
}

// IconEmoji returns the echoed icon, or "" when Slack sent none.
func (r *InboundResponse) IconEmoji() string {
	if r.Message == nil || r.Message.Icons == nil {
		return ""
	}
	return r.Message.Icons.Emoji
}
