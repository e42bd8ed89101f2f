// Package receipt announces delivered messages on a NATS subject.
package receipt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nuid"

	"github.com/laetho/slack-message/internal/slackmessage"
)

const DefaultSubject = "slack.message.sent"

type Receipt struct {
	ID      string    `json:"id"`
	Channel string    `json:"channel"`
	TS      string    `json:"ts"`
	Text    string    `json:"text"`
	SentAt  time.Time `json:"sent_at"`
}

// FromResponse builds a receipt for an accepted message.
func FromResponse(msg slackmessage.OutboundMessage, res *slackmessage.InboundResponse, now time.Time) Receipt {
	return Receipt{
		ID:      nuid.Next(),
		Channel: res.Channel,
		TS:      res.TS,
		Text:    msg.Text,
		SentAt:  now.UTC(),
	}
}

type Publisher struct {
	nc      *nats.Conn
	subject string
}

func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{nc: nc, subject: subject}
}

func (p *Publisher) Subject() string {
	return p.subject
}

// Publish sends r and flushes so the receipt is on the wire before the
// process exits.
func (p *Publisher) Publish(r Receipt) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish receipt: %w", err)
	}
	if err := p.nc.Flush(); err != nil {
		return fmt.Errorf("flush receipt: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	p.nc.Close()
}
