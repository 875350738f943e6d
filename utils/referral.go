package utils

import (
	"encoding/base32"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const referralCodeLength = 8

// DeriveReferralCode derives the 8-character referral code for a user from
// their document id. The derivation is deterministic, so re-deriving the
// code for an existing user always yields the same value and the code never
// needs to be stored before the user document exists.
func DeriveReferralCode(id primitive.ObjectID) string {
	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(id[:])
	encoded = strings.ToUpper(encoded)
	encoded = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, encoded)

	if len(encoded) < referralCodeLength {
		encoded = encoded + strings.Repeat("0", referralCodeLength-len(encoded))
	}

	return encoded[:referralCodeLength]
}

// ReferralLink builds the signup link that embeds a referral code.
func ReferralLink(base, code string) string {
	if base == "" {
		base = "https://maxprofit.app/register"
	}
	return base + "?ref=" + code
}
