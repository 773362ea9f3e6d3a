package session

import (
	"errors"
	"strings"
	"time"

	"coderunner/internal/catalog"
)

// Phase is the execution lifecycle: Idle -> Running -> Succeeded|Failed.
type Phase int

const (
	Idle Phase = iota
	Running
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// ExecState is the current phase plus its payload. Output is set only for
// Succeeded and Error only for Failed.
type ExecState struct {
	Phase  Phase
	Output string
	Error  string
}

type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
)

// ThemeKey is the preference store key holding "dark" or "light".
const ThemeKey = "theme"

func (t Theme) String() string {
	if t == ThemeLight {
		return "light"
	}
	return "dark"
}

func ParseTheme(s string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark":
		return ThemeDark, true
	case "light":
		return ThemeLight, true
	}
	return ThemeDark, false
}

var FontSizes = []int{12, 14, 16, 18}

const DefaultFontSize = 14

// CopyFlagDuration is how long Copied reports true after MarkCopied.
const CopyFlagDuration = 2000 * time.Millisecond

var (
	ErrRunning         = errors.New("a run is already in progress")
	ErrInvalidFontSize = errors.New("invalid font size")
)

// Ticket identifies one run. Results are applied only while the session is
// still on the same generation.
type Ticket struct {
	Generation uint64
	Language   catalog.Language
	Source     string
	StartedAt  time.Time
}
