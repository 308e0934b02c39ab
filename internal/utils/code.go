package utils // package utils provides helper functions for hashing, tokens and ticket codes

import (
	"crypto/rand" // secure random number generation for code suffixes
	"fmt"         // formatting the code components
	"time"        // millisecond timestamp component
)

const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewTicketCode returns the redemption code embedded in a ticket's QR
// payload: "QR-{orderID}-{unix ms}-{9 random base36 chars}".  The order
// id and timestamp make collisions across orders impossible and the
// random suffix separates tickets created in the same millisecond; the
// Unique_QR column constraint backstops the remaining probability.
func NewTicketCode(orderID uint64) (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return fmt.Sprintf("QR-%d-%d-%s", orderID, time.Now().UnixMilli(), buf), nil
}
