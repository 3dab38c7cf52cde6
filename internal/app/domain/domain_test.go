package domain

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewContent(t *testing.T) {
	c, err := NewContent("hello world")
	if err != nil {
		t.Fatalf("NewContent returned error: %v", err)
	}
	if c.String() != "hello world" {
		t.Fatalf("content did not round-trip, got %q", c.String())
	}

	if _, err := NewContent(""); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestPasswordUnsetMatchesAnything(t *testing.T) {
	unset := NewPassword("")
	if unset.IsSet() {
		t.Fatal("empty password must report unset")
	}
	if !unset.Matches(NewPassword("anything")) {
		t.Fatal("unset password must match any candidate")
	}
	if !unset.Matches(NewPassword("")) {
		t.Fatal("unset password must match empty candidate")
	}
}

func TestPasswordExactMatch(t *testing.T) {
	p := NewPassword("123")
	if !p.Matches(NewPassword("123")) {
		t.Fatal("identical password must match")
	}
	if p.Matches(NewPassword("wrong")) {
		t.Fatal("different password must not match")
	}
	if p.Matches(NewPassword("")) {
		t.Fatal("empty candidate must not match a set password")
	}
}

func TestGenerateShortCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := GenerateShortCode()
		if len(code) != ShortCodeLength {
			t.Fatalf("expected %d characters, got %q", ShortCodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(shortCodeAlphabet, r) {
				t.Fatalf("character %q outside alphabet in %q", r, code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatal("generator produced the same code 100 times")
	}
}

func TestGenerateShortCodeRejectsBiasedBytes(t *testing.T) {
	// Bytes 250..255 would over-represent the first alphabet symbols under a
	// plain modulo; the generator must skip them and keep drawing.
	src := bytes.NewReader([]byte{
		250, 251, 252, 253, 254, 255, 0, 1, 2, 3,
		4, 5, 6, 7, 8, 9, 10, 11, 12, 13,
	})

	code, err := generateShortCode(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != shortCodeAlphabet {
		t.Fatalf("expected bytes 0..9 to map straight onto the alphabet, got %q", code)
	}
}

func TestGenerateShortCodeExhaustedSource(t *testing.T) {
	if _, err := generateShortCode(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Fatal("expected an error when the random source runs dry")
	}
}

func TestParseExpiry(t *testing.T) {
	got, err := ParseExpiry("2026-03-01")
	if err != nil {
		t.Fatalf("ParseExpiry returned error: %v", err)
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("expected midnight UTC %v, got %v", want, got)
	}

	if got, err := ParseExpiry(""); err != nil || got != nil {
		t.Fatalf("empty expiry must yield nil, got %v / %v", got, err)
	}

	if _, err := ParseExpiry("01-03-2026"); !errors.Is(err, ErrInvalidExpiry) {
		t.Fatalf("expected ErrInvalidExpiry, got %v", err)
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	if !Expired(&past, now) {
		t.Fatal("past expiry must report expired")
	}
	if Expired(&future, now) {
		t.Fatal("future expiry must not report expired")
	}
	if Expired(nil, now) {
		t.Fatal("nil expiry never expires")
	}
}
