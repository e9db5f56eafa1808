package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestMessagePrefixes(t *testing.T) {
	cases := map[string]struct {
		fn     func(string) string
		prefix string
	}{
		"success": {Success, "✓ "},
		"warn":    {Warn, "⚠ "},
		"err":     {Err, "✗ "},
		"info":    {Info, "ℹ "},
		"hint":    {Hint, "→ "},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			out := ansi.Strip(tc.fn("Mining activated"))
			assert.Equal(t, tc.prefix+"Mining activated", out)
		})
	}
}

func TestPlainFormattersKeepText(t *testing.T) {
	for _, fn := range []func(string) string{Addr, Val, Meta, ChainName} {
		assert.Equal(t, "BNB Testnet", ansi.Strip(fn("BNB Testnet")))
	}
}

func TestDangerBoxFramesKey(t *testing.T) {
	out := ansi.Strip(DangerBox("0xac09…ff80"))
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], "0xac09…ff80")
	assert.True(t, strings.HasPrefix(lines[0], "╭"))
}

func TestTruncateAddr(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"0x1234", "0x1234"},
		{"0x12345678", "0x12345678"},
		{"0x9641515C95c6BCc8dBb1bfa0b05004B0b9b30da4", "0x9641…0da4"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TruncateAddr(tc.in), tc.in)
	}
}
