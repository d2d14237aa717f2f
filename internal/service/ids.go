package service

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

func newID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// newShareToken is a UUID so share links are guessproof and easy to eyeball
// in logs.
func newShareToken() string {
	return uuid.NewString()
}

func nowUnix() int64 {
	return time.Now().Unix()
}
