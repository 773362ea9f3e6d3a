// Package editor holds the source buffer and the pure key transforms applied
// to it. Nothing here knows about terminals or event loops.
package editor

import "strings"

// Buffer is the editable text plus a selection. Start is the anchor and End
// the head; they are rune offsets and may be in either order. A caret is a
// selection with Start == End.
type Buffer struct {
	Text  string
	Start int
	End   int
}

// NewBuffer returns text with the caret at offset 0.
func NewBuffer(text string) Buffer {
	return Buffer{Text: text}
}

// Range returns the selection clamped to the text and ordered lo <= hi.
func (b Buffer) Range() (lo, hi int) {
	n := len([]rune(b.Text))
	lo, hi = clamp(b.Start, 0, n), clamp(b.End, 0, n)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// Caret is the head of the selection, clamped to the text.
func (b Buffer) Caret() int {
	return clamp(b.End, 0, len([]rune(b.Text)))
}

func (b Buffer) HasSelection() bool {
	lo, hi := b.Range()
	return lo != hi
}

// Selected returns the selected text.
func (b Buffer) Selected() string {
	lo, hi := b.Range()
	return string([]rune(b.Text)[lo:hi])
}

// Insert replaces the selection with s and leaves the caret after it.
func Insert(b Buffer, s string) Buffer {
	return replace(b, s, len([]rune(s)))
}

// replace swaps the selection for s, then places the caret caretOffset runes
// after the start of the inserted text. The caret is computed from the
// mutated text in the same step.
func replace(b Buffer, s string, caretOffset int) Buffer {
	lo, hi := b.Range()
	r := []rune(b.Text)
	ins := []rune(s)
	out := make([]rune, 0, len(r)-(hi-lo)+len(ins))
	out = append(out, r[:lo]...)
	out = append(out, ins...)
	out = append(out, r[hi:]...)
	caret := lo + clamp(caretOffset, 0, len(ins))
	return Buffer{Text: string(out), Start: caret, End: caret}
}

// Lines splits text on newlines. An empty text is one empty line.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}

// CaretLineCol returns the zero-based line and rune column of the caret.
func CaretLineCol(b Buffer) (line, col int) {
	return lineCol([]rune(b.Text), b.Caret())
}

func lineCol(r []rune, off int) (line, col int) {
	for i := 0; i < off && i < len(r); i++ {
		if r[i] == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}

// offsetOf maps line/col back to an offset, clamping col to the line length.
func offsetOf(r []rune, line, col int) int {
	cur := 0
	i := 0
	for ; i < len(r) && cur < line; i++ {
		if r[i] == '\n' {
			cur++
		}
	}
	if cur < line {
		return len(r)
	}
	for c := 0; c < col && i < len(r) && r[i] != '\n'; c++ {
		i++
	}
	return i
}

func lineStart(r []rune, off int) int {
	for off > 0 && r[off-1] != '\n' {
		off--
	}
	return off
}

func lineEnd(r []rune, off int) int {
	for off < len(r) && r[off] != '\n' {
		off++
	}
	return off
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
