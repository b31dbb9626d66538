package service

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt refuses inputs over 72 bytes and a signed invite token is well past
// that, so the token is reduced to a fixed-size digest before hashing.
func inviteTokenDigest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(hex.EncodeToString(sum[:]))
}

func hashInviteToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(inviteTokenDigest(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func compareInviteToken(storedHash, token string) error {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), inviteTokenDigest(token))
}
