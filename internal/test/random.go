package test

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digits       = "0123456789"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomASCIIString returns a pseudo-random alphanumeric string within the provided bounds.
// When maxLen equals minLen the resulting string always has that exact length.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen
	if maxLen > minLen {
		length += randomIntn(maxLen - minLen + 1)
	}
	return randomFrom(asciiLetters, length)
}

// RandomTransactionID returns a well-formed twelve character UPI transaction id.
func RandomTransactionID() string {
	return randomFrom(asciiLetters, 12)
}

// RandomEmail returns a unique-looking lower-case address on example.com.
func RandomEmail() string {
	return strings.ToLower(RandomASCIIString(6, 12)) + "@example.com"
}

// RandomOTP returns a six digit delivery code.
func RandomOTP() string {
	return randomFrom(digits, 6)
}

func randomFrom(alphabet string, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphabet[randomIntn(len(alphabet))]
	}
	return string(buf)
}

func randomIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}
