package test

import (
	"fmt"
	"math/rand/v2"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns a pseudo-random ASCII string within the provided bounds.
// When maxLen equals minLen the resulting string always has that exact length.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen + rand.IntN(maxLen-minLen+1)
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = asciiLetters[rand.IntN(len(asciiLetters))]
	}
	return string(buf)
}

// RandomEmail returns a unique-looking address on the example.com domain.
func RandomEmail() string {
	return fmt.Sprintf("%s@example.com", RandomASCIIString(6, 12))
}

// RandomOrder returns a complete order with a positive quantity.
func RandomOrder() (name, email, phone, dish string, quantity int) {
	return RandomASCIIString(4, 10),
		RandomEmail(),
		fmt.Sprintf("+1-555-%04d", rand.IntN(10000)),
		RandomASCIIString(5, 15),
		1 + rand.IntN(9)
}
