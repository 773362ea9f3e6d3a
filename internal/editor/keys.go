package editor

import "strings"

type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyTab
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeySelectAll
)

// Key is one keystroke aimed at the buffer. Shift extends the selection for
// movement keys.
type Key struct {
	Kind  KeyKind
	Rune  rune
	Shift bool
}

func RuneKey(r rune) Key { return Key{Kind: KeyRune, Rune: r} }

// IndentWidth is the number of spaces a tab request inserts.
const IndentWidth = 2

var closers = map[rune]rune{
	'(':  ')',
	'[':  ']',
	'{':  '}',
	'"':  '"',
	'\'': '\'',
}

// Closer reports the matching closer for a paired-delimiter opener.
func Closer(open rune) (rune, bool) {
	c, ok := closers[open]
	return c, ok
}

// ApplyKeyTransform applies the structured edits: a delimiter opener inserts
// the pair with the caret between them, and a tab request inserts
// IndentWidth spaces. Both replace the current selection as one edit. For
// any other key the buffer is returned untouched with handled == false so
// the caller can fall through to ordinary editing.
func ApplyKeyTransform(b Buffer, k Key) (Buffer, bool) {
	switch k.Kind {
	case KeyRune:
		closer, ok := closers[k.Rune]
		if !ok {
			return b, false
		}
		return replace(b, string([]rune{k.Rune, closer}), 1), true
	case KeyTab:
		return replace(b, strings.Repeat(" ", IndentWidth), IndentWidth), true
	}
	return b, false
}

// Apply runs ApplyKeyTransform and then ordinary text editing and caret
// movement for everything it does not handle.
func Apply(b Buffer, k Key) Buffer {
	if nb, ok := ApplyKeyTransform(b, k); ok {
		return nb
	}
	r := []rune(b.Text)
	lo, hi := b.Range()
	head := b.Caret()

	switch k.Kind {
	case KeyRune:
		return replace(b, string(k.Rune), 1)
	case KeyEnter:
		return replace(b, "\n", 1)
	case KeyBackspace:
		if lo != hi {
			return replace(b, "", 0)
		}
		if lo == 0 {
			return Buffer{Text: b.Text}
		}
		return replace(Buffer{Text: b.Text, Start: lo - 1, End: lo}, "", 0)
	case KeyDelete:
		if lo != hi {
			return replace(b, "", 0)
		}
		if lo >= len(r) {
			return Buffer{Text: b.Text, Start: lo, End: lo}
		}
		return replace(Buffer{Text: b.Text, Start: lo, End: lo + 1}, "", 0)
	case KeySelectAll:
		return Buffer{Text: b.Text, Start: 0, End: len(r)}
	case KeyLeft:
		if !k.Shift && lo != hi {
			return collapse(b, lo)
		}
		return move(b, k.Shift, head-1)
	case KeyRight:
		if !k.Shift && lo != hi {
			return collapse(b, hi)
		}
		return move(b, k.Shift, head+1)
	case KeyHome:
		return move(b, k.Shift, lineStart(r, head))
	case KeyEnd:
		return move(b, k.Shift, lineEnd(r, head))
	case KeyUp, KeyDown:
		line, col := lineCol(r, head)
		if k.Kind == KeyUp {
			if line == 0 {
				return move(b, k.Shift, 0)
			}
			return move(b, k.Shift, offsetOf(r, line-1, col))
		}
		if lineEnd(r, head) >= len(r) {
			return move(b, k.Shift, len(r))
		}
		return move(b, k.Shift, offsetOf(r, line+1, col))
	}
	return b
}

func collapse(b Buffer, at int) Buffer {
	return Buffer{Text: b.Text, Start: at, End: at}
}

func move(b Buffer, extend bool, to int) Buffer {
	to = clamp(to, 0, len([]rune(b.Text)))
	if extend {
		return Buffer{Text: b.Text, Start: clamp(b.Start, 0, len([]rune(b.Text))), End: to}
	}
	return collapse(b, to)
}
