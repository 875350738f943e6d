package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDeriveReferralCode(t *testing.T) {
	id := primitive.NewObjectID()

	code := DeriveReferralCode(id)
	assert.Len(t, code, 8)
	assert.Regexp(t, "^[A-Z0-9]{8}$", code)

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, code, DeriveReferralCode(id))
	})

	t.Run("distinct ids get distinct codes", func(t *testing.T) {
		other := DeriveReferralCode(primitive.NewObjectID())
		assert.NotEqual(t, code, other)
	})
}

func TestReferralLink(t *testing.T) {
	assert.Equal(t, "https://maxprofit.app/register?ref=ABCD1234", ReferralLink("", "ABCD1234"))
	assert.Equal(t, "https://example.com/join?ref=ABCD1234", ReferralLink("https://example.com/join", "ABCD1234"))
}

func TestRoundAmount(t *testing.T) {
	assert.Equal(t, 1.00, RoundAmount(0.9999))
	assert.Equal(t, 0.33, RoundAmount(0.3333))
	assert.Equal(t, 4.00, RoundAmount(200*2.0/100))
	assert.Equal(t, -0.33, RoundAmount(-0.3333))
	assert.Equal(t, 0.00, RoundAmount(0))
}
