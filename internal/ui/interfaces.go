package ui

import (
	"coderunner/internal/catalog"
	"coderunner/internal/runner"
	"coderunner/internal/session"
)

// Controller receives the side effects the view cannot perform on the UI
// loop. Calls are made from their own goroutine.
type Controller interface {
	OnRun(t session.Ticket)
	OnLanguageChanged(lang catalog.Language)
	OnCopy(text string)
	OnExport(lang catalog.Language, text string)
	OnQuit()
}

// View is the surface the controller talks back to. Every method is safe to
// call from any goroutine; the change is applied on the UI loop.
type View interface {
	Run() error
	Stop()
	SetController(Controller)
	CompleteRun(t session.Ticket, o runner.Outcome)
	MarkCopied()
	FlashStatus(msg string)
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutStacked
	LayoutTooSmall
)

func (m LayoutMode) String() string {
	switch m {
	case LayoutWide:
		return "wide"
	case LayoutStacked:
		return "stacked"
	default:
		return "too-small"
	}
}
