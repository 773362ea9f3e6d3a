package editor

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestKeyFromTea(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyPressMsg
		want Key
		ok   bool
	}{
		{name: "rune", msg: tea.KeyPressMsg{Code: 'x', Text: "x"}, want: RuneKey('x'), ok: true},
		{name: "opener", msg: tea.KeyPressMsg{Code: '(', Text: "("}, want: RuneKey('('), ok: true},
		{name: "tab", msg: tea.KeyPressMsg{Code: tea.KeyTab}, want: Key{Kind: KeyTab}, ok: true},
		{name: "shift tab", msg: tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}, ok: false},
		{name: "enter", msg: tea.KeyPressMsg{Code: tea.KeyEnter}, want: Key{Kind: KeyEnter}, ok: true},
		{name: "shift left", msg: tea.KeyPressMsg{Code: tea.KeyLeft, Mod: tea.ModShift}, want: Key{Kind: KeyLeft, Shift: true}, ok: true},
		{name: "ctrl a", msg: tea.KeyPressMsg{Code: 'a', Mod: tea.ModCtrl}, want: Key{Kind: KeySelectAll}, ok: true},
		{name: "ctrl r", msg: tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}, ok: false},
		{name: "alt rune", msg: tea.KeyPressMsg{Code: 'b', Text: "b", Mod: tea.ModAlt}, ok: false},
		{name: "function key", msg: tea.KeyPressMsg{Code: tea.KeyF5}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyFromTea(tt.msg)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
