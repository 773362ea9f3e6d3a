package editor

import (
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
)

// KeyFromTea converts a Bubble Tea key press into a buffer Key. It reports
// false for presses the buffer does not consume (modified shortcuts,
// function keys, multi-rune text).
func KeyFromTea(ev tea.KeyPressMsg) (Key, bool) {
	key := ev.Key()
	shift := key.Mod&tea.ModShift != 0
	ctrl := key.Mod&tea.ModCtrl != 0
	alt := key.Mod&tea.ModAlt != 0

	if ctrl {
		if (key.Code == 'a' || key.Code == 'A') && !alt {
			return Key{Kind: KeySelectAll}, true
		}
		return Key{}, false
	}
	if alt {
		return Key{}, false
	}

	switch key.Code {
	case tea.KeyTab:
		if shift {
			return Key{}, false
		}
		return Key{Kind: KeyTab}, true
	case tea.KeyEnter:
		return Key{Kind: KeyEnter}, true
	case tea.KeyBackspace:
		return Key{Kind: KeyBackspace}, true
	case tea.KeyDelete:
		return Key{Kind: KeyDelete}, true
	case tea.KeyLeft:
		return Key{Kind: KeyLeft, Shift: shift}, true
	case tea.KeyRight:
		return Key{Kind: KeyRight, Shift: shift}, true
	case tea.KeyUp:
		return Key{Kind: KeyUp, Shift: shift}, true
	case tea.KeyDown:
		return Key{Kind: KeyDown, Shift: shift}, true
	case tea.KeyHome:
		return Key{Kind: KeyHome, Shift: shift}, true
	case tea.KeyEnd:
		return Key{Kind: KeyEnd, Shift: shift}, true
	}

	if key.Text != "" && utf8.RuneCountInString(key.Text) == 1 {
		r, _ := utf8.DecodeRuneInString(key.Text)
		return RuneKey(r), true
	}
	return Key{}, false
}
