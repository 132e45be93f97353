package domain

import (
	"fmt"
	"strings"
	"time"
)

// Channel represents the delivery channel of a notification.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
)

func (c Channel) String() string { return string(c) }

func (c Channel) IsValid() bool {
	return c == ChannelWhatsApp
}

func ParseChannelFromString(s string) (Channel, error) {
	ch := Channel(strings.ToLower(strings.TrimSpace(s)))
	if !ch.IsValid() {
		return "", fmt.Errorf("%w: invalid channel %q", ErrValidation, s)
	}
	return ch, nil
}

// DeliveryOutcome is the coarse result of one dispatch attempt.
type DeliveryOutcome string

const (
	OutcomeSent   DeliveryOutcome = "sent"
	OutcomeFailed DeliveryOutcome = "failed"
)

func (o DeliveryOutcome) String() string { return string(o) }

func (o DeliveryOutcome) IsValid() bool {
	switch o {
	case OutcomeSent, OutcomeFailed:
		return true
	}
	return false
}

func ParseOutcomeFromString(s string) (DeliveryOutcome, error) {
	o := DeliveryOutcome(strings.ToLower(strings.TrimSpace(s)))
	if !o.IsValid() {
		return "", fmt.Errorf("%w: invalid outcome %q", ErrValidation, s)
	}
	return o, nil
}

// Notification records one outbound message attempt and its outcome.
// Records are append-only and never updated after creation.
type Notification struct {
	ID            string
	AppointmentID *string // nil for notifications not tied to an appointment
	Channel       Channel
	Content       string
	Outcome       DeliveryOutcome
	CreatedAt     time.Time
}

func (n *Notification) Validate() error {
	if strings.TrimSpace(n.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	if !n.Channel.IsValid() {
		return fmt.Errorf("%w: invalid channel %q", ErrValidation, n.Channel)
	}
	if !n.Outcome.IsValid() {
		return fmt.Errorf("%w: invalid outcome %q", ErrValidation, n.Outcome)
	}
	return nil
}
