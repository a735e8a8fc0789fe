package messaging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopic(t *testing.T) {
	assert.Equal(t, "hospital.appointment_booked", Topic("hospital", "APPOINTMENT_BOOKED"))
	assert.Equal(t, "appointment_cancelled", Topic("", "APPOINTMENT_CANCELLED"))
}

func TestEncode(t *testing.T) {
	raw := json.RawMessage(`{"id":1}`)
	out, err := Encode(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(out))

	out, err = Encode(Message{ID: "e1", Type: "APPOINTMENT_BOOKED", Payload: raw})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"e1","type":"APPOINTMENT_BOOKED","payload":{"id":1}}`, string(out))
}
