package ui

import (
	"sync"
	"unicode/utf8"

	"coderunner/internal/catalog"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlighter colours buffer text with chroma. The lexer and style are
// cached because the view re-highlights on every frame.
type highlighter struct {
	mu        sync.Mutex
	lexerKey  string
	lexer     chroma.Lexer
	styleName string
	style     *chroma.Style
}

func lexerFor(lang catalog.Language) chroma.Lexer {
	l := lexers.Get(lang.Lexer)
	if l == nil && lang.Extension != "" {
		l = lexers.Match("main." + lang.Extension)
	}
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// colours returns one hex colour per rune of text; "" means the theme's
// default foreground.
func (h *highlighter) colours(lang catalog.Language, styleName, text string) []string {
	h.mu.Lock()
	key := lang.ID + "|" + lang.Lexer
	if h.lexer == nil || h.lexerKey != key {
		h.lexer = lexerFor(lang)
		h.lexerKey = key
	}
	if h.style == nil || h.styleName != styleName {
		h.style = styles.Get(styleName)
		if h.style == nil {
			h.style = styles.Fallback
		}
		h.styleName = styleName
	}
	lexer, style := h.lexer, h.style
	h.mu.Unlock()

	out := make([]string, utf8.RuneCountInString(text))
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return out
	}
	i := 0
	for tok := it(); tok != chroma.EOF; tok = it() {
		colour := ""
		if entry := style.Get(tok.Type); entry.Colour.IsSet() {
			colour = entry.Colour.String()
		}
		for range tok.Value {
			if i >= len(out) {
				return out
			}
			out[i] = colour
			i++
		}
	}
	return out
}
