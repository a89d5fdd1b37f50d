package editor

import "github.com/atotto/clipboard"

// Clipboard provides editor-level clipboard integration.
//
// Errors must not crash the UI; failures are ignored.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// SystemClipboard uses the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadText() (string, error) { return clipboard.ReadAll() }
func (SystemClipboard) WriteText(s string) error  { return clipboard.WriteAll(s) }

// SystemClipboardAvailable reports whether a system clipboard utility exists.
func SystemClipboardAvailable() bool { return !clipboard.Unsupported }
