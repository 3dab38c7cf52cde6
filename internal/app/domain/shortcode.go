package domain

import (
	"crypto/rand"
	"io"
)

// ShortCodeLength is the length of generated short codes.
const ShortCodeLength = 10

// shortCodeAlphabet is intentionally small so codes stay easy to read out and
// retype. Generated codes are not guaranteed unique; the storage layer's
// uniqueness constraint is the arbiter and callers retry on collision.
const shortCodeAlphabet = "abcdef1234"

// maxUnbiasedByte caps accepted random bytes at the largest multiple of the
// alphabet size, so the modulo below stays uniform.
const maxUnbiasedByte = 256 - 256%len(shortCodeAlphabet)

// GenerateShortCode draws a fresh random short code.
func GenerateShortCode() string {
	code, err := generateShortCode(rand.Reader)
	if err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	return code
}

func generateShortCode(src io.Reader) (string, error) {
	code := make([]byte, 0, ShortCodeLength)
	buf := make([]byte, ShortCodeLength)
	for len(code) < ShortCodeLength {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= maxUnbiasedByte {
				continue
			}
			code = append(code, shortCodeAlphabet[int(b)%len(shortCodeAlphabet)])
			if len(code) == ShortCodeLength {
				break
			}
		}
	}
	return string(code), nil
}
