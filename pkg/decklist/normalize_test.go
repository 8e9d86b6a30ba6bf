package decklist

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"1-001L", "1-001L"},
		{"21-002R", "21-002R"},
		{"1_001l", "1_001l"},
		{"(1-001L)", "1-001L"},
		{"1-001L!!", "1-001L"},
		{"1 -  001L", "1-001L"},
		{"ab", "ab"},
		{strings.Repeat("a", 25), strings.Repeat("a", 20)},
		{"é1-001Lü", "1-001L"},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.token)
		if err != nil {
			t.Errorf("Normalize(%q) error = %v", tt.token, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestNormalize_Rejects(t *testing.T) {
	tokens := []string{
		"",
		"a",
		"!!!",
		"<>",
		"script",
		"SCRIPT-1",
		"1-eval-2",
		"Function",
		"alert1",
		"document_cookie",
		"xxWINDOWxx",
		"iframe",
		// the denylist applies after stripping, so punctuation cannot hide a token
		"s.c.r.i.p.t",
	}

	for _, tok := range tokens {
		_, err := Normalize(tok)
		if !errors.Is(err, ErrInvalidCardID) {
			t.Errorf("Normalize(%q) error = %v, want ErrInvalidCardID", tok, err)
		}
	}
}

func TestNormalize_OutputCharset(t *testing.T) {
	got, err := Normalize(`1-0"0'1L;<>&`)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	for _, r := range got {
		if !isIDRune(r) {
			t.Errorf("Normalize() output %q contains %q", got, r)
		}
	}
}
