package webhook

import (
	"testing"
)

const inboundTextBody = `{
	"object": "whatsapp_business_account",
	"entry": [{
		"id": "123",
		"changes": [{
			"field": "messages",
			"value": {
				"messaging_product": "whatsapp",
				"metadata": {"display_phone_number": "5511999999999"},
				"messages": [{
					"from": "5511988887777",
					"id": "wamid.abc",
					"timestamp": "1742040000",
					"type": "text",
					"text": {"body": "Dentista | 15/03 | 10:00 - 11:00"}
				}]
			}
		}]
	}]
}`

const statusBody = `{
	"entry": [{
		"changes": [{
			"value": {
				"statuses": [{
					"id": "wamid.abc",
					"status": "delivered",
					"recipient_id": "5511988887777"
				}]
			}
		}]
	}]
}`

func TestDecodeInboundText(t *testing.T) {
	event := Decode([]byte(inboundTextBody))
	if event.Kind != EventMessage {
		t.Fatalf("kind = %q", event.Kind)
	}
	msg := event.Message
	if msg.From != "5511988887777" || msg.MessageID != "wamid.abc" || msg.Type != "text" {
		t.Errorf("message = %+v", msg)
	}
	if msg.Body != "Dentista | 15/03 | 10:00 - 11:00" {
		t.Errorf("body = %q", msg.Body)
	}
}

func TestDecodeStatusReceipt(t *testing.T) {
	event := Decode([]byte(statusBody))
	if event.Kind != EventStatus {
		t.Fatalf("kind = %q", event.Kind)
	}
	if event.Status.Status != "delivered" || event.Status.RecipientID != "5511988887777" {
		t.Errorf("status = %+v", event.Status)
	}
}

func TestDecodeMediaMessageWithoutText(t *testing.T) {
	body := `{"entry":[{"changes":[{"value":{"messages":[{"from":"5511988887777","id":"wamid.img","type":"image"}]}}]}]}`
	event := Decode([]byte(body))
	if event.Kind != EventMessage {
		t.Fatalf("kind = %q", event.Kind)
	}
	if event.Message.Type != "image" || event.Message.Body != "" {
		t.Errorf("message = %+v", event.Message)
	}
}

func TestDecodeUnknownShapes(t *testing.T) {
	cases := []string{
		`not json at all`,
		`{}`,
		`{"entry":[]}`,
		`{"entry":[{"changes":[{"value":{}}]}]}`,
		`[1,2,3]`,
	}
	for _, body := range cases {
		if event := Decode([]byte(body)); event.Kind != EventUnknown {
			t.Errorf("Decode(%q).Kind = %q, want unknown", body, event.Kind)
		}
	}
}
