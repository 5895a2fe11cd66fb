package messages

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type orderCreated struct {
	Base
	OrderID string `json:"order_id"`
	Level   int    `json:"level"`
}

type unmarshalable struct {
	Base
	Feed chan int `json:"feed"`
}

func TestNewBase(t *testing.T) {
	b := NewBase()
	assert.Equal(t, uuid.Version(7), b.UID().Version(), "UUID should be version 7")
	assert.False(t, b.Timestamp.IsZero())

	other := NewBase()
	assert.NotEqual(t, b.UID(), other.UID(), "Generated UIDs should be unique")
}

func TestBaseSatisfiesMessage(t *testing.T) {
	var msg Message = orderCreated{Base: NewBase(), OrderID: "o-1"}
	assert.NotEqual(t, uuid.Nil, msg.UID())
}

func TestEnvelopeMarshalJSON(t *testing.T) {
	msg := orderCreated{Base: NewBase(), OrderID: "o-1", Level: 7}
	env := Wrap(msg, "messages.orderCreated", "orders").WithMeta(`{"tenant":"acme"}`)

	b, err := json.Marshal(env)
	require.NoError(t, err)

	doc := gjson.ParseBytes(b)
	assert.Equal(t, "envelope", doc.Get("type").String())
	assert.Equal(t, msg.UID().String(), doc.Get("uid").String())
	assert.Equal(t, "messages.orderCreated", doc.Get("message_type").String())
	assert.Equal(t, "orders", doc.Get("category").String())
	assert.Equal(t, "o-1", doc.Get("payload.order_id").String())
	assert.Equal(t, int64(7), doc.Get("payload.level").Int())
	assert.Equal(t, msg.UID().String(), doc.Get("payload.uid").String())
	assert.Equal(t, "acme", doc.Get("meta.tenant").String())
	assert.True(t, doc.Get("sent_at").Exists())
}

func TestEnvelopeUnmarshalJSON(t *testing.T) {
	msg := orderCreated{Base: NewBase(), OrderID: "o-2"}
	b, err := json.Marshal(Wrap(msg, "messages.orderCreated", "orders").WithMeta(`{"a":1}`))
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(b, &env))
	assert.Equal(t, msg.UID(), env.UID)
	assert.Equal(t, "messages.orderCreated", env.MessageType)
	assert.Equal(t, "orders", env.Category)
	assert.False(t, env.SentAt.IsZero())
	assert.Equal(t, int64(1), env.Meta.Get("a").Int())

	raw, ok := env.Payload.(json.RawMessage)
	require.True(t, ok)
	assert.Equal(t, "o-2", gjson.GetBytes(raw, "order_id").String())
}

func TestEnvelopeUnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{`},
		{"wrong type", `{"type":"chunk","uid":"0191d4f4-8d1f-7c6e-9b8a-2f4e5d6c7b8a"}`},
		{"missing uid", `{"type":"envelope"}`},
		{"bad uid", `{"type":"envelope","uid":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			assert.Error(t, env.UnmarshalJSON([]byte(tt.data)))
		})
	}
}

func TestDescribe(t *testing.T) {
	msg := orderCreated{Base: NewBase(), OrderID: "o-3"}
	out := Describe(msg, "messages.orderCreated", "orders")
	assert.Equal(t, "o-3", gjson.Get(out, "payload.order_id").String())

	bad := unmarshalable{Base: NewBase(), Feed: make(chan int)}
	out = Describe(bad, "messages.unmarshalable", "")
	assert.Contains(t, out, bad.UID().String())
	assert.False(t, gjson.Valid(out))
}
