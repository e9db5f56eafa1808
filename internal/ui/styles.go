package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green, success
	ColorWarning   = lipgloss.Color("#FFB800") // yellow, pending reward
	ColorError     = lipgloss.Color("#FF4444") // red, errors
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan, addresses and hashes
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold, amounts
	ColorMeta      = lipgloss.Color("#555555") // dim gray, metadata
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue, chrome
	ColorChain     = lipgloss.Color("#9B5DE5") // purple, network names
	ColorHighlight = lipgloss.Color("#F15BB5") // pink, buttons and selection
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorAddress)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Underline(true)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorChain).
			Bold(true).
			MarginBottom(1)

	StyleDim = lipgloss.NewStyle().Foreground(ColorMeta)
)

// Banner returns the minedash ASCII banner.
func Banner() string {
	art := `
  ███╗   ███╗██╗███╗   ██╗███████╗
  ████╗ ████║██║████╗  ██║██╔════╝
  ██╔████╔██║██║██╔██╗ ██║█████╗
  ██║╚██╔╝██║██║██║╚██╗██║██╔══╝
  ██║ ╚═╝ ██║██║██║ ╚████║███████╗
  ╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝╚══════╝ dash`

	tagline := StyleMeta.Render("     Mining & referral console  ⛏")
	return StyleChain.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational message.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// Hint formats a suggestion, usually the next command to run.
func Hint(msg string) string { return StyleMeta.Render("→ " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ChainName formats a network name.
func ChainName(c string) string { return StyleChain.Render(c) }

// DangerBox frames content that must not leak, such as a freshly generated
// private key.
func DangerBox(content string) string {
	return StyleBorder.BorderForeground(ColorError).Render(content)
}

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// padR pads s to visible width n (ANSI-safe using lipgloss.Width).
func padR(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

// trimErr strips transport noise from node errors and caps the length at n
// runes.
func trimErr(s string, n int) string {
	for _, prefix := range []string{"Post \"", "dial tcp", "connection refused", "context deadline"} {
		if idx := strings.Index(s, prefix); idx >= 0 {
			s = s[idx:]
			break
		}
	}
	if r := []rune(s); n > 0 && len(r) > n {
		return string(r[:n]) + "…"
	}
	return s
}
