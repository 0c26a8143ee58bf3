package paystack_test

import (
	"testing"

	"github.com/chessstake/wallet/infra/provider/paystack"
	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"chess_1_000001"}}`)
	secret := "sk_test_secret"

	t.Run("valid signature verifies", func(t *testing.T) {
		sig := paystack.Sign(body, secret)
		assert.True(t, paystack.VerifySignature(body, sig, secret))
	})

	t.Run("missing signature never verifies", func(t *testing.T) {
		assert.False(t, paystack.VerifySignature(body, "", secret))
	})

	t.Run("missing secret never verifies", func(t *testing.T) {
		sig := paystack.Sign(body, secret)
		assert.False(t, paystack.VerifySignature(body, sig, ""))
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		sig := paystack.Sign(body, "sk_test_other")
		assert.False(t, paystack.VerifySignature(body, sig, secret))
	})

	t.Run("tampered body rejected", func(t *testing.T) {
		sig := paystack.Sign(body, secret)
		tampered := []byte(`{"event":"charge.success","data":{"reference":"chess_1_000002"}}`)
		assert.False(t, paystack.VerifySignature(tampered, sig, secret))
	})

	t.Run("garbage signature rejected", func(t *testing.T) {
		assert.False(t, paystack.VerifySignature(body, "not-hex-at-all", secret))
	})
}
