package cli

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/doeshing/shell-ai/internal/ports"
)

// Clipboard implements ports.Clipboard on top of the platform clipboard
// tools (pbcopy, xclip, xsel, wl-copy, the Windows API).
type Clipboard struct{}

// NewClipboard builds the clipboard helper.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// Enabled reports whether a clipboard tool was found.
func (c *Clipboard) Enabled() bool {
	return !clipboard.Unsupported
}

// Copy copies text to the system clipboard.
func (c *Clipboard) Copy(text string) error {
	if !c.Enabled() {
		return fmt.Errorf("no clipboard utility found (install xclip, xsel or wl-clipboard)")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

var _ ports.Clipboard = (*Clipboard)(nil)
