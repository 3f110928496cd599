// clipboard.go - System clipboard access for the AVM1/AVM2 paste-into-text-
// field path, using
// golang.design/x/clipboard the way a prior implementation reserves it for its own
// debug-monitor register-value paste shortcut.
package backend

import "golang.design/x/clipboard"

// ClipboardInit must be called once before ReadClipboardText; it is
// separated from init() so headless test runs and CI environments without a
// clipboard provider don't fail at package load time.
func ClipboardInit() error {
	return clipboard.Init()
}

// ReadClipboardText returns the system clipboard's current text contents,
// the source Player.Input fills InputEvent.PasteUTF from on an InputPaste
// event when the host didn't already supply PasteUTF itself.
func ReadClipboardText() string {
	return string(clipboard.Read(clipboard.FmtText))
}
