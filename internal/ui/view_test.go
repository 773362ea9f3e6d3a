package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"coderunner/internal/catalog"
	"coderunner/internal/editor"
	"coderunner/internal/runner"
	"coderunner/internal/session"
	"coderunner/internal/state"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

type mockController struct {
	mu        sync.Mutex
	runs      []session.Ticket
	languages []string
	copies    []string
	exports   []string
	quitCalls int
}

func (m *mockController) OnRun(t session.Ticket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, t)
}

func (m *mockController) OnLanguageChanged(lang catalog.Language) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.languages = append(m.languages, lang.ID)
}

func (m *mockController) OnCopy(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.copies = append(m.copies, text)
}

func (m *mockController) OnExport(lang catalog.Language, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exports = append(m.exports, lang.ID)
}

func (m *mockController) OnQuit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quitCalls++
}

func (m *mockController) wait(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		ok := cond()
		m.mu.Unlock()
		if ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func newTestRoot(t *testing.T, prefs state.PreferenceStore) (*Root, *session.Session, *mockController) {
	t.Helper()
	sess, err := session.New(context.Background(), catalog.Default(), prefs)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	v := New(sess, Options{})
	ctrl := &mockController{}
	v.SetController(ctrl)
	_, _ = v.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return v, sess, ctrl
}

func press(v *Root, code rune, mod tea.KeyMod, text string) {
	_, _ = v.Update(tea.KeyPressMsg{Code: code, Mod: mod, Text: text})
}

func screen(v *Root) string {
	return ansi.Strip(v.renderMain())
}

func TestCtrlRStartsRunOnce(t *testing.T) {
	v, sess, ctrl := newTestRoot(t, nil)

	press(v, 'r', tea.ModCtrl, "")
	if sess.State().Phase != session.Running {
		t.Fatalf("expected running, got %v", sess.State().Phase)
	}
	ctrl.wait(t, func() bool { return len(ctrl.runs) == 1 })
	if !strings.Contains(screen(v), "Executing JavaScript code...") {
		t.Fatalf("expected executing message")
	}

	press(v, 'r', tea.ModCtrl, "")
	time.Sleep(30 * time.Millisecond)
	ctrl.mu.Lock()
	runs := append([]session.Ticket(nil), ctrl.runs...)
	ctrl.mu.Unlock()
	if len(runs) != 1 {
		t.Fatalf("expected run refused while running, got %d runs", len(runs))
	}

	v.CompleteRun(runs[0], runner.Outcome{Output: "Hello, World!\n"})
	out := screen(v)
	if !strings.Contains(out, "Output") || !strings.Contains(out, "Hello, World!") {
		t.Fatalf("expected output block, got:\n%s", out)
	}
}

func TestEmptyBufferShowsErrorWithoutController(t *testing.T) {
	v, sess, ctrl := newTestRoot(t, nil)
	sess.SetBuffer(editor.NewBuffer("  \n"))

	press(v, 'r', tea.ModCtrl, "")
	time.Sleep(30 * time.Millisecond)
	ctrl.mu.Lock()
	n := len(ctrl.runs)
	ctrl.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected no run dispatched")
	}
	out := screen(v)
	if !strings.Contains(out, "Execution Error") || !strings.Contains(out, "Please enter some code to run") {
		t.Fatalf("expected error block, got:\n%s", out)
	}
}

func TestStaleCompletionIgnoredAfterLanguageSwitch(t *testing.T) {
	v, sess, ctrl := newTestRoot(t, nil)
	press(v, 'r', tea.ModCtrl, "")
	ctrl.wait(t, func() bool { return len(ctrl.runs) == 1 })

	press(v, 'l', tea.ModCtrl, "")
	ctrl.wait(t, func() bool { return len(ctrl.languages) == 1 })
	if sess.Language().ID != "python" {
		t.Fatalf("expected python, got %q", sess.Language().ID)
	}

	ctrl.mu.Lock()
	ticket := ctrl.runs[0]
	ctrl.mu.Unlock()
	v.CompleteRun(ticket, runner.Outcome{Output: "late"})
	if sess.State().Phase != session.Idle {
		t.Fatalf("expected stale result ignored, got %v", sess.State().Phase)
	}
	if !strings.Contains(screen(v), "Ready to execute") {
		t.Fatalf("expected idle output panel")
	}
}

func TestRunRefusedAfterSwitchUntilFirstReturns(t *testing.T) {
	v, _, ctrl := newTestRoot(t, nil)
	press(v, 'r', tea.ModCtrl, "")
	ctrl.wait(t, func() bool { return len(ctrl.runs) == 1 })
	press(v, 'l', tea.ModCtrl, "")
	press(v, 'r', tea.ModCtrl, "")
	time.Sleep(30 * time.Millisecond)

	ctrl.mu.Lock()
	runs := append([]session.Ticket(nil), ctrl.runs...)
	ctrl.mu.Unlock()
	if len(runs) != 1 {
		t.Fatalf("expected one request in flight, got %d", len(runs))
	}

	v.CompleteRun(runs[0], runner.Outcome{Output: "late"})
	press(v, 'r', tea.ModCtrl, "")
	ctrl.wait(t, func() bool { return len(ctrl.runs) == 2 })
	ctrl.mu.Lock()
	second := ctrl.runs[1]
	ctrl.mu.Unlock()
	if second.Language.ID != "python" {
		t.Fatalf("expected second run on python, got %q", second.Language.ID)
	}
}

func TestEditorScrollsHorizontallyWithCaret(t *testing.T) {
	v, sess, _ := newTestRoot(t, nil)
	text := "head" + strings.Repeat("x", 200) + "TAIL"
	sess.SetBuffer(editor.Buffer{Text: text, Start: len(text), End: len(text)})

	out := screen(v)
	if !strings.Contains(out, "TAIL") || strings.Contains(out, "head") {
		t.Fatalf("expected view scrolled to the caret, got:\n%s", out)
	}
	if v.editorLeft == 0 {
		t.Fatalf("expected horizontal offset")
	}

	press(v, tea.KeyHome, 0, "")
	out = screen(v)
	if !strings.Contains(out, "head") || strings.Contains(out, "TAIL") {
		t.Fatalf("expected view back at column 0, got:\n%s", out)
	}
}

func TestTypingOpenerInsertsPair(t *testing.T) {
	v, sess, _ := newTestRoot(t, nil)
	sess.SetBuffer(editor.Buffer{Text: "ab", Start: 1, End: 1})

	press(v, '(', 0, "(")
	b := sess.Buffer()
	if b.Text != "a()b" || b.Caret() != 2 {
		t.Fatalf("unexpected buffer %+v", b)
	}

	press(v, tea.KeyTab, 0, "")
	if sess.Code() != "a(  )b" {
		t.Fatalf("expected indent inserted, got %q", sess.Code())
	}
}

func TestPasteInsertsText(t *testing.T) {
	v, sess, _ := newTestRoot(t, nil)
	sess.SetBuffer(editor.NewBuffer(""))
	_, _ = v.Update(tea.PasteMsg{Content: "print(1)"})
	if sess.Code() != "print(1)" {
		t.Fatalf("expected pasted text, got %q", sess.Code())
	}
}

func TestThemeTogglePersists(t *testing.T) {
	prefs := state.NewMemory()
	v, sess, _ := newTestRoot(t, prefs)

	press(v, 't', tea.ModCtrl, "")
	if sess.Theme() != session.ThemeLight || v.theme.Syntax != "github" {
		t.Fatalf("expected light theme applied")
	}
	press(v, 't', tea.ModCtrl, "")
	if got := strings.Join(prefs.Writes(), ","); got != "theme=light,theme=dark" {
		t.Fatalf("unexpected writes %q", got)
	}
}

func TestCopyAndExportDispatch(t *testing.T) {
	v, sess, ctrl := newTestRoot(t, nil)

	press(v, 'y', tea.ModCtrl, "")
	press(v, 's', tea.ModCtrl, "")
	ctrl.wait(t, func() bool { return len(ctrl.copies) == 1 && len(ctrl.exports) == 1 })
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if ctrl.copies[0] != sess.Code() || ctrl.exports[0] != "js" {
		t.Fatalf("unexpected dispatch copies=%v exports=%v", ctrl.copies, ctrl.exports)
	}
}

func TestMarkCopiedShowsConfirmation(t *testing.T) {
	v, _, _ := newTestRoot(t, nil)
	v.MarkCopied()
	if !strings.Contains(screen(v), "Copied!") {
		t.Fatalf("expected copy confirmation in status bar")
	}
	if cmd := v.afterApply(); cmd == nil {
		t.Fatalf("expected expiry redraw to be scheduled")
	}
}

func TestFlashStatus(t *testing.T) {
	v, _, _ := newTestRoot(t, nil)
	v.FlashStatus("Saved to /tmp/main.js")
	if !strings.Contains(screen(v), "Saved to /tmp/main.js") {
		t.Fatalf("expected flash in status bar")
	}
}

func TestFullscreenHidesOutput(t *testing.T) {
	v, sess, _ := newTestRoot(t, nil)
	press(v, tea.KeyF11, 0, "")
	if !sess.Fullscreen() {
		t.Fatalf("expected fullscreen")
	}
	if strings.Contains(screen(v), "Ready to execute") {
		t.Fatalf("expected output panel hidden in fullscreen")
	}
	press(v, tea.KeyF11, 0, "")
	if !strings.Contains(screen(v), "Ready to execute") {
		t.Fatalf("expected output panel back")
	}
}

func TestFontCycleUpdatesHeader(t *testing.T) {
	v, sess, _ := newTestRoot(t, nil)
	press(v, 'f', tea.ModCtrl, "")
	if sess.FontSize() != 16 {
		t.Fatalf("expected 16, got %d", sess.FontSize())
	}
	if !strings.Contains(screen(v), "16px") {
		t.Fatalf("expected font size in header")
	}
}

func TestHelpOverlayBlocksEditing(t *testing.T) {
	v, sess, _ := newTestRoot(t, nil)
	before := sess.Code()

	press(v, tea.KeyF1, 0, "")
	if !v.helpOpen {
		t.Fatalf("expected help open")
	}
	press(v, 'x', 0, "x")
	if sess.Code() != before {
		t.Fatalf("expected keys swallowed while help is open")
	}
	press(v, tea.KeyEsc, 0, "")
	if v.helpOpen {
		t.Fatalf("expected help closed on escape")
	}
}

func TestHelpOverlaySpringSettles(t *testing.T) {
	v, _, _ := newTestRoot(t, nil)
	_, cmd := v.Update(tea.KeyPressMsg{Code: tea.KeyF1})
	if cmd == nil {
		t.Fatalf("expected animation tick on open")
	}
	for i := 0; i < 600 && cmd != nil; i++ {
		_, cmd = v.Update(animateMsg(time.Now()))
	}
	if cmd != nil || v.overlayPos != 1 {
		t.Fatalf("expected overlay settled, pos=%v", v.overlayPos)
	}
	if !strings.Contains(ansi.Strip(v.renderHelpOverlay()), "Help (Esc to close)") {
		t.Fatalf("expected help panel title")
	}

	press(v, tea.KeyEsc, 0, "")
	if v.overlayPos != 0 {
		t.Fatalf("expected overlay reset on close")
	}
}

func TestHelpOverlayNoMotionOpensFull(t *testing.T) {
	sess, err := session.New(context.Background(), catalog.Default(), nil)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	v := New(sess, Options{NoMotion: true})
	_, cmd := v.Update(tea.KeyPressMsg{Code: tea.KeyF1})
	if cmd != nil || v.overlayPos != 1 {
		t.Fatalf("expected overlay fully open without ticks, pos=%v", v.overlayPos)
	}
}

func TestClearReturnsToIdle(t *testing.T) {
	v, sess, ctrl := newTestRoot(t, nil)
	press(v, 'r', tea.ModCtrl, "")
	ctrl.wait(t, func() bool { return len(ctrl.runs) == 1 })
	ctrl.mu.Lock()
	ticket := ctrl.runs[0]
	ctrl.mu.Unlock()
	v.CompleteRun(ticket, runner.Outcome{Err: &runner.HTTPStatusError{Code: 500}})
	if !strings.Contains(screen(v), "HTTP error! status: 500") {
		t.Fatalf("expected http error shown")
	}

	press(v, 'k', tea.ModCtrl, "")
	if sess.State().Phase != session.Idle {
		t.Fatalf("expected idle after clear")
	}
}

func TestTooSmallTerminal(t *testing.T) {
	v, _, _ := newTestRoot(t, nil)
	_, _ = v.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(screen(v), "Terminal too small") {
		t.Fatalf("expected resize notice")
	}
}

func TestCtrlQQuits(t *testing.T) {
	v, _, ctrl := newTestRoot(t, nil)
	press(v, 'q', tea.ModCtrl, "")
	ctrl.wait(t, func() bool { return ctrl.quitCalls == 1 })
}

func TestViewImplementsInterfaceCompileTime(t *testing.T) {
	sess, err := session.New(context.Background(), catalog.Default(), nil)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	var _ View = New(sess, Options{})
}
