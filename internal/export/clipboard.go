package export

import (
	"context"
	"fmt"

	"coderunner/internal/telemetry"

	"github.com/atotto/clipboard"
)

// Clipboard accepts text for the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// SystemClipboard writes through xclip, xsel, wl-copy, pbcopy or the
// Windows API, whichever the platform provides.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard unsupported on this system")
	}
	return clipboard.WriteAll(text)
}

// Copier copies buffer text and logs failures.
type Copier struct {
	Clipboard Clipboard
	Logger    *telemetry.Logger
}

// Copy writes text to the clipboard. A failure is logged and returned; it
// never touches execution state.
func (c Copier) Copy(_ context.Context, text string) error {
	cb := c.Clipboard
	if cb == nil {
		cb = SystemClipboard{}
	}
	if err := cb.WriteText(text); err != nil {
		c.Logger.Error("export.copy_failed", map[string]any{"error": err.Error(), "bytes": len(text)})
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	c.Logger.Info("export.copied", map[string]any{"bytes": len(text)})
	return nil
}
