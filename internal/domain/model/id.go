package model

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"time"
)

// IDLength is the number of hex characters in every entity identifier.
const IDLength = 24

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID returns a 24-character hex identifier: 4 bytes of unix seconds followed by 8 random bytes.
func NewID() string {
	var raw [12]byte
	binary.BigEndian.PutUint32(raw[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(raw[4:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(raw[:])
}

// IsID reports whether s has the shape of an entity identifier.
func IsID(s string) bool {
	return idPattern.MatchString(s)
}
