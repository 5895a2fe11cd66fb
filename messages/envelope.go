package messages

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var envelopeJSON = []byte(`{"type":"envelope"}`)

// Envelope is a message together with where it was sent.
type Envelope struct {
	UID         uuid.UUID
	MessageType string
	Category    string
	Payload     any
	SentAt      strfmt.DateTime
	Meta        gjson.Result
}

// Wrap builds an envelope for msg. The category is the rendered category label.
func Wrap(msg Message, messageType, category string) Envelope {
	return Envelope{
		UID:         msg.UID(),
		MessageType: messageType,
		Category:    category,
		Payload:     msg,
		SentAt:      strfmt.DateTime(time.Now().UTC()),
	}
}

// WithMeta returns a copy of the envelope carrying raw JSON metadata.
func (e Envelope) WithMeta(raw string) Envelope {
	e.Meta = gjson.Parse(raw)
	return e
}

// MarshalJSON implements custom JSON marshaling for Envelope
func (e Envelope) MarshalJSON() ([]byte, error) {
	result := envelopeJSON

	var err error
	result, err = sjson.SetBytes(result, "uid", e.UID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "message_type", e.MessageType)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "category", e.Category)
	if err != nil {
		return nil, err
	}

	if e.Payload != nil {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		result, err = sjson.SetRawBytes(result, "payload", payload)
		if err != nil {
			return nil, err
		}
	}

	if !e.SentAt.IsZero() {
		result, err = sjson.SetBytes(result, "sent_at", e.SentAt.String())
		if err != nil {
			return nil, err
		}
	}

	if e.Meta.Exists() {
		result, err = sjson.SetRawBytes(result, "meta", []byte(e.Meta.Raw))
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Envelope. The payload
// is kept as raw JSON since its Go type is not known here.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	typ := gjson.GetBytes(data, "type")
	if !typ.Exists() || typ.String() != "envelope" {
		return fmt.Errorf("missing or invalid type, expected 'envelope'")
	}

	uid := gjson.GetBytes(data, "uid")
	if !uid.Exists() {
		return fmt.Errorf("missing required field 'uid'")
	}
	if err := e.UID.UnmarshalText([]byte(uid.String())); err != nil {
		return fmt.Errorf("invalid uid: %w", err)
	}

	e.MessageType = gjson.GetBytes(data, "message_type").String()
	e.Category = gjson.GetBytes(data, "category").String()

	if payload := gjson.GetBytes(data, "payload"); payload.Exists() {
		e.Payload = json.RawMessage(payload.Raw)
	}

	if sentAt := gjson.GetBytes(data, "sent_at"); sentAt.Exists() {
		if err := e.SentAt.UnmarshalText([]byte(sentAt.String())); err != nil {
			return fmt.Errorf("invalid sent_at: %w", err)
		}
	}

	if meta := gjson.GetBytes(data, "meta"); meta.Exists() {
		e.Meta = meta
	}

	return nil
}

// Describe renders msg as an envelope JSON string for logs. It never fails:
// when the payload cannot be marshaled it falls back to fmt formatting.
func Describe(msg Message, messageType, category string) string {
	b, err := json.Marshal(Wrap(msg, messageType, category))
	if err != nil {
		return fmt.Sprintf("%s{uid=%s category=%q payload=%+v}", messageType, msg.UID(), category, msg)
	}
	return string(b)
}
