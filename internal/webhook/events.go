// Package webhook receives inbound events from the Meta Cloud API and turns
// chat messages into appointments.
package webhook

import (
	"encoding/json"
)

// EventKind discriminates the inbound payload variants we know how to handle.
type EventKind string

const (
	// EventMessage is an inbound user message.
	EventMessage EventKind = "message"
	// EventStatus is a delivery or read receipt for an earlier outbound send.
	EventStatus EventKind = "status"
	// EventUnknown is anything else. Unknown events are acknowledged and
	// dropped so new provider payload shapes never break the endpoint.
	EventUnknown EventKind = "unknown"
)

// MessageEvent is one inbound message, flattened out of the provider envelope.
type MessageEvent struct {
	From      string
	MessageID string
	Type      string
	Body      string
}

// StatusEvent is one delivery receipt.
type StatusEvent struct {
	MessageID   string
	Status      string
	RecipientID string
}

// Event is the tagged decode result. Exactly the variant named by Kind is
// populated.
type Event struct {
	Kind    EventKind
	Message *MessageEvent
	Status  *StatusEvent
}

// Provider envelope wire shapes. Only the fields we read are declared.
type envelope struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					ID   string `json:"id"`
					Type string `json:"type"`
					Text *struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
				Statuses []struct {
					ID          string `json:"id"`
					Status      string `json:"status"`
					RecipientID string `json:"recipient_id"`
				} `json:"statuses"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// Decode classifies one webhook POST body. Malformed or empty payloads decode
// to the unknown variant rather than an error, since every inbound request is
// acknowledged regardless.
func Decode(body []byte) Event {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Event{Kind: EventUnknown}
	}

	for _, entry := range env.Entry {
		for _, change := range entry.Changes {
			value := change.Value
			if len(value.Messages) > 0 {
				msg := value.Messages[0]
				event := MessageEvent{From: msg.From, MessageID: msg.ID, Type: msg.Type}
				if msg.Text != nil {
					event.Body = msg.Text.Body
				}
				return Event{Kind: EventMessage, Message: &event}
			}
			if len(value.Statuses) > 0 {
				st := value.Statuses[0]
				return Event{Kind: EventStatus, Status: &StatusEvent{
					MessageID:   st.ID,
					Status:      st.Status,
					RecipientID: st.RecipientID,
				}}
			}
		}
	}
	return Event{Kind: EventUnknown}
}
