package stripe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const whsec = "whsec_test_secret"

var payload = []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","customer":"cus_42","client_reference_id":"user-7"}}}`)

func TestConstructEvent(t *testing.T) {
	now := time.Unix(1_741_615_200, 0)

	evt, err := ConstructEvent(payload, SignatureHeader(payload, whsec, now), whsec, now.Add(time.Minute), DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, evt.Type)
	assert.Equal(t, "cus_42", evt.Data.Object.Customer)
	assert.Equal(t, "user-7", evt.Data.Object.ClientReferenceID)
}

func TestVerifySignature(t *testing.T) {
	now := time.Unix(1_741_615_200, 0)
	header := SignatureHeader(payload, whsec, now)

	t.Run("Tampered body", func(t *testing.T) {
		err := VerifySignature([]byte(`{"id":"evt_2"}`), header, whsec, now, DefaultTolerance)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		err := VerifySignature(payload, header, "whsec_other", now, DefaultTolerance)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Too old", func(t *testing.T) {
		err := VerifySignature(payload, header, whsec, now.Add(10*time.Minute), DefaultTolerance)
		assert.ErrorIs(t, err, ErrStaleTimestamp)
	})

	t.Run("Missing header", func(t *testing.T) {
		assert.ErrorIs(t, VerifySignature(payload, "", whsec, now, DefaultTolerance), ErrMissingSignature)
		assert.ErrorIs(t, VerifySignature(payload, "t=abc,v1=00", whsec, now, DefaultTolerance), ErrMissingSignature)
	})

	t.Run("Rotated secrets", func(t *testing.T) {
		rotated := header + ",v1=deadbeef"
		assert.NoError(t, VerifySignature(payload, rotated, whsec, now, DefaultTolerance))
	})
}
