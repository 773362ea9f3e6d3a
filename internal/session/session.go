// Package session is the editor state machine: language selection, the
// buffer, the execution lifecycle and view preferences. A Session is owned by
// one event loop and is not safe for concurrent use.
package session

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"coderunner/internal/catalog"
	"coderunner/internal/editor"
	"coderunner/internal/runner"
	"coderunner/internal/state"
	"coderunner/internal/telemetry"

	"github.com/google/uuid"
)

// Executor runs source for a language. *runner.Client implements it.
type Executor interface {
	Run(ctx context.Context, lang catalog.Language, source string) runner.Outcome
}

type Option func(*Session)

func WithLogger(lg *telemetry.Logger) Option {
	return func(s *Session) { s.logger = lg }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLanguage selects id instead of the catalog's first entry.
func WithLanguage(id string) Option {
	return func(s *Session) { s.initialLang = id }
}

type Session struct {
	id     string
	cat    *catalog.Catalog
	prefs  state.PreferenceStore
	logger *telemetry.Logger
	now    func() time.Time

	initialLang string

	lang       catalog.Language
	buf        editor.Buffer
	exec       ExecState
	theme      Theme
	fontSize   int
	fullscreen bool
	copiedAt   time.Time
	generation uint64

	// inFlight is set from BeginRun until the ticket's outcome arrives,
	// even when a language switch has already made the ticket stale.
	inFlight  bool
	flightGen uint64
}

// New builds a session on cat. The theme is read from prefs once; a missing
// or unreadable value falls back to dark.
func New(ctx context.Context, cat *catalog.Catalog, prefs state.PreferenceStore, opts ...Option) (*Session, error) {
	s := &Session{
		id:       uuid.NewString(),
		cat:      cat,
		prefs:    prefs,
		now:      time.Now,
		lang:     cat.First(),
		fontSize: DefaultFontSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(map[string]any{"session": s.id})

	if s.initialLang != "" {
		l, err := cat.Find(s.initialLang)
		if err != nil {
			return nil, err
		}
		s.lang = l
	}
	s.buf = editor.NewBuffer(s.lang.DefaultCode)

	if prefs != nil {
		raw, ok, err := prefs.Get(ctx, ThemeKey)
		switch {
		case err != nil:
			s.logger.Error("prefs.theme_read_failed", map[string]any{"error": err.Error()})
		case ok:
			if t, valid := ParseTheme(raw); valid {
				s.theme = t
			}
		}
	}
	return s, nil
}

func (s *Session) ID() string                 { return s.id }
func (s *Session) Catalog() *catalog.Catalog  { return s.cat }
func (s *Session) Language() catalog.Language { return s.lang }
func (s *Session) Buffer() editor.Buffer      { return s.buf }
func (s *Session) Code() string               { return s.buf.Text }
func (s *Session) State() ExecState           { return s.exec }
func (s *Session) Theme() Theme               { return s.theme }
func (s *Session) FontSize() int              { return s.fontSize }
func (s *Session) Fullscreen() bool           { return s.fullscreen }
func (s *Session) Generation() uint64         { return s.generation }

// CanRun reports whether the run action should be enabled. It stays false
// after a language switch until the earlier request has returned.
func (s *Session) CanRun() bool { return !s.inFlight }

// InFlight reports whether a request is outstanding, stale or not.
func (s *Session) InFlight() bool { return s.inFlight }

// SelectLanguage switches language from any state. The buffer is reset to
// the starter code, output is discarded and any in-flight run goes stale.
func (s *Session) SelectLanguage(id string) error {
	l, err := s.cat.Find(id)
	if err != nil {
		return err
	}
	prev := s.lang.ID
	s.lang = l
	s.buf = editor.NewBuffer(l.DefaultCode)
	s.exec = ExecState{Phase: Idle}
	s.generation++
	s.logger.Info("session.select_language", map[string]any{"from": prev, "to": l.ID})
	return nil
}

// NextLanguage selects the language after the current one.
func (s *Session) NextLanguage() catalog.Language {
	next := s.cat.Next(s.lang.ID)
	_ = s.SelectLanguage(next.ID)
	return s.lang
}

// BeginRun moves to Running and returns the ticket to execute. A blank
// buffer settles straight to Failed with runner.ErrEmptyInput; a call while
// a request is in flight returns ErrRunning and changes nothing.
func (s *Session) BeginRun() (Ticket, error) {
	if s.inFlight {
		return Ticket{}, ErrRunning
	}
	if strings.TrimSpace(s.buf.Text) == "" {
		s.exec = ExecState{Phase: Failed, Error: runner.ErrEmptyInput.Error()}
		return Ticket{}, runner.ErrEmptyInput
	}
	s.generation++
	s.exec = ExecState{Phase: Running}
	s.inFlight, s.flightGen = true, s.generation
	t := Ticket{
		Generation: s.generation,
		Language:   s.lang,
		Source:     s.buf.Text,
		StartedAt:  s.now(),
	}
	s.logger.Info("session.run_begin", map[string]any{"lang": t.Language.ID, "generation": t.Generation})
	return t, nil
}

// Complete settles the run for t. A stale t only releases the in-flight
// slot; the displayed state is left untouched and Complete returns false.
func (s *Session) Complete(t Ticket, o runner.Outcome) bool {
	if s.inFlight && t.Generation == s.flightGen {
		s.inFlight = false
	}
	if s.exec.Phase != Running || t.Generation != s.generation {
		s.logger.Info("session.run_stale", map[string]any{
			"lang":       t.Language.ID,
			"generation": t.Generation,
			"current":    s.generation,
		})
		return false
	}
	if o.Succeeded() {
		s.exec = ExecState{Phase: Succeeded, Output: o.Output}
	} else {
		s.exec = ExecState{Phase: Failed, Error: o.Message()}
	}
	s.logger.Info("session.run_settled", map[string]any{"lang": t.Language.ID, "phase": s.exec.Phase.String()})
	return true
}

// Run is BeginRun, exec and Complete in one blocking call.
func (s *Session) Run(ctx context.Context, exec Executor) runner.Outcome {
	t, err := s.BeginRun()
	if err != nil {
		return runner.Outcome{Err: err}
	}
	out := exec.Run(ctx, t.Language, t.Source)
	s.Complete(t, out)
	return out
}

// Clear drops output or error and returns to Idle. The buffer is kept.
func (s *Session) Clear() {
	if s.exec.Phase == Succeeded || s.exec.Phase == Failed {
		s.exec = ExecState{Phase: Idle}
	}
}

// ToggleTheme flips the theme and persists it immediately. The flip stands
// even if the write fails; the error is returned for the caller to surface.
func (s *Session) ToggleTheme(ctx context.Context) error {
	if s.theme == ThemeDark {
		s.theme = ThemeLight
	} else {
		s.theme = ThemeDark
	}
	s.logger.Info("session.theme", map[string]any{"theme": s.theme.String()})
	if s.prefs == nil {
		return nil
	}
	if err := s.prefs.Set(ctx, ThemeKey, s.theme.String()); err != nil {
		s.logger.Error("prefs.theme_write_failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("persist theme: %w", err)
	}
	return nil
}

func (s *Session) SetFontSize(n int) error {
	if !slices.Contains(FontSizes, n) {
		return fmt.Errorf("%w: %d", ErrInvalidFontSize, n)
	}
	s.fontSize = n
	return nil
}

// CycleFontSize steps to the next size, wrapping to the smallest.
func (s *Session) CycleFontSize() int {
	i := slices.Index(FontSizes, s.fontSize)
	s.fontSize = FontSizes[(i+1)%len(FontSizes)]
	return s.fontSize
}

func (s *Session) ToggleFullscreen() bool {
	s.fullscreen = !s.fullscreen
	return s.fullscreen
}

// Edit applies one key to the buffer. Editing is allowed in every phase.
func (s *Session) Edit(k editor.Key) {
	s.buf = editor.Apply(s.buf, k)
}

// Paste inserts clipboard text over the selection.
func (s *Session) Paste(text string) {
	text = editor.NormalizePaste(text)
	if text == "" {
		return
	}
	s.buf = editor.Insert(s.buf, text)
}

func (s *Session) SetBuffer(b editor.Buffer) {
	s.buf = b
}

func (s *Session) MarkCopied() {
	s.copiedAt = s.now()
}

// Copied reports whether the copy confirmation should still be shown.
func (s *Session) Copied() bool {
	if s.copiedAt.IsZero() {
		return false
	}
	return s.now().Sub(s.copiedAt) < CopyFlagDuration
}
