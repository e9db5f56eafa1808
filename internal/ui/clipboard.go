package ui

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// openBrowser opens url in the OS default browser.
func openBrowser(url string) {
	if url == "" {
		return
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboard(text) }

func copyToClipboard(text string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "windows":
		cmd = exec.Command("clip")
	default:
		// wl-copy on Wayland, xclip elsewhere.
		if _, err := exec.LookPath("wl-copy"); err == nil {
			cmd = exec.Command("wl-copy")
		} else {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		}
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	if _, err := io.WriteString(stdin, text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	if err := stdin.Close(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}
