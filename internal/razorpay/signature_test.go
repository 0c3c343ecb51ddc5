package razorpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	secret := "whsec_test"

	sig := SignWebhookBody(body, secret)
	assert.True(t, VerifyWebhookSignature(body, sig, secret))

	assert.False(t, VerifyWebhookSignature(body, sig, "other_secret"))
	assert.False(t, VerifyWebhookSignature([]byte(`{"event":"tampered"}`), sig, secret))
	assert.False(t, VerifyWebhookSignature(body, "", secret))
	assert.False(t, VerifyWebhookSignature(body, "deadbeef", secret))
	assert.False(t, VerifyWebhookSignature(body, sig, ""))
}
