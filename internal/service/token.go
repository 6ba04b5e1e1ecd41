package service

import (
	"crypto/rand"

	"github.com/shopspring/decimal"
)

// tokenAlphabet only holds characters CODE39 can encode.
const tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const tokenLen = 8

// newToken returns a random 8-character id for vouchers and transactions.
func newToken() string {
	// 252 is the largest multiple of 36 below 256; higher bytes are rejected
	// so every character is equally likely.
	const limit = 256 - 256%len(tokenAlphabet)
	out := make([]byte, 0, tokenLen)
	buf := make([]byte, tokenLen*2)
	for len(out) < tokenLen {
		_, _ = rand.Read(buf)
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == tokenLen {
				break
			}
		}
	}
	return string(out)
}

// isMoney reports whether d is a non-negative amount with at most two
// decimal places.
func isMoney(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Round(2))
}
