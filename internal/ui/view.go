package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"coderunner/internal/editor"
	"coderunner/internal/export"
	"coderunner/internal/runner"
	"coderunner/internal/session"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
)

type applyMsg struct {
	fn func(*Root)
}

type copyExpiredMsg struct{}

type animateMsg time.Time

type editorKeyMap struct {
	Run        key.Binding
	Language   key.Binding
	Theme      key.Binding
	Font       key.Binding
	Clear      key.Binding
	Copy       key.Binding
	Export     key.Binding
	Fullscreen key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Language, k.Theme, k.Copy, k.Export, k.Help, k.Quit}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.Language, k.Clear},
		{k.Theme, k.Font, k.Fullscreen},
		{k.Copy, k.Export, k.Help, k.Quit},
	}
}

type Root struct {
	sess  *session.Session
	theme Theme
	ascii bool
	debug bool
	ctrl  Controller

	mu      sync.Mutex
	program *tea.Program
	running bool

	layout LayoutMode
	cols   int
	rows   int

	editorTop   int
	editorLeft  int
	outputTop   int
	statusFlash string
	helpOpen    bool
	copyPending bool

	overlayPos float64
	overlayVel float64
	spring     harmonica.Spring
	noMotion   bool

	help     help.Model
	keymap   editorKeyMap
	spin     spinner.Model
	hl       highlighter
	markdown *glamour.TermRenderer
	mdStyle  string
	logger   *clog.Logger

	lastInputEvent string
}

type Options struct {
	ASCIIOnly bool
	Debug     bool
	// NoMotion opens the help overlay without the spring animation.
	NoMotion bool
}

func New(sess *session.Session, opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "coderunner-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	theme := ThemeFor(sess.Theme())
	r := &Root{
		sess:   sess,
		theme:  theme,
		ascii:  opts.ASCIIOnly,
		debug:  opts.Debug,
		layout: LayoutWide,
		cols:   120,
		rows:   30,
		help:   help.New(),
		spin: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(theme.Accent),
		),
		logger:   logger,
		spring:   harmonica.NewSpring(harmonica.FPS(60), 10.0, 0.8),
		noMotion: opts.NoMotion,
	}
	r.keymap = editorKeyMap{
		Run:        key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^R", "Run")),
		Language:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^L", "Language")),
		Theme:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("^T", "Theme")),
		Font:       key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("^F", "Font")),
		Clear:      key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("^K", "Clear")),
		Copy:       key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("^Y", "Copy")),
		Export:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^S", "Download")),
		Fullscreen: key.NewBinding(key.WithKeys("f11"), key.WithHelp("F11", "Fullscreen")),
		Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "Help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("^Q", "Quit")),
	}
	r.applyTheme()
	return r
}

func (r *Root) Init() tea.Cmd {
	if r.sess.State().Phase == session.Running {
		return spinnerTickCmd(r.spin)
	}
	return nil
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.afterApply()
	case copyExpiredMsg:
		return r, nil
	case animateMsg:
		if !r.helpOpen {
			r.overlayPos, r.overlayVel = 0, 0
			return r, nil
		}
		r.overlayPos, r.overlayVel = r.spring.Update(r.overlayPos, r.overlayVel, 1.0)
		if r.overlayPos < 0.999 || abs(r.overlayVel) > 0.001 {
			return r, animateTickCmd()
		}
		r.overlayPos, r.overlayVel = 1, 0
		return r, nil
	case spinner.TickMsg:
		if r.sess.State().Phase != session.Running {
			return r, nil
		}
		var cmd tea.Cmd
		r.spin, cmd = r.spin.Update(msg)
		return r, cmd
	case tea.PasteMsg:
		return r.handlePaste(msg.Content)
	case tea.ClipboardMsg:
		return r.handlePaste(msg.Content)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	if r.cols < 1 {
		r.cols = 120
	}
	if r.rows < 1 {
		r.rows = 30
	}

	base := r.renderMain()
	if r.helpOpen {
		if overlay := r.renderHelpOverlay(); overlay != "" {
			base = composeOverlay(base, overlay, r.cols, r.rows)
		}
	}
	v := tea.NewView(base)
	v.AltScreen = true
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

// CompleteRun settles t on the UI loop. Stale tickets are dropped by the
// session.
func (r *Root) CompleteRun(t session.Ticket, o runner.Outcome) {
	r.apply(func(m *Root) {
		if m.sess.Complete(t, o) {
			m.outputTop = 0
		}
		m.syncRunBinding()
	})
}

func (r *Root) MarkCopied() {
	r.apply(func(m *Root) {
		m.sess.MarkCopied()
		m.copyPending = true
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) afterApply() tea.Cmd {
	if !r.copyPending {
		return nil
	}
	r.copyPending = false
	// Redraw once the confirmation window has passed so "Copied!" clears.
	return tea.Tick(session.CopyFlagDuration, func(time.Time) tea.Msg { return copyExpiredMsg{} })
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	go fn(ctrl)
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, r.keymap.Quit) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}

	if r.helpOpen {
		if msg.Code == tea.KeyEsc || key.Matches(msg, r.keymap.Help) {
			r.helpOpen = false
			r.overlayPos, r.overlayVel = 0, 0
		}
		return r, nil
	}

	if (msg.Code == tea.KeyInsert && msg.Mod&tea.ModShift != 0) ||
		((msg.Code == 'v' || msg.Code == 'V') && msg.Mod&tea.ModCtrl != 0 && msg.Mod&tea.ModShift != 0) {
		return r, func() tea.Msg { return tea.ReadClipboard() }
	}

	switch {
	case key.Matches(msg, r.keymap.Run):
		return r, r.startRun()
	case key.Matches(msg, r.keymap.Language):
		lang := r.sess.NextLanguage()
		r.editorTop, r.editorLeft, r.outputTop = 0, 0, 0
		r.statusFlash = ""
		r.syncRunBinding()
		r.dispatchController(func(c Controller) { c.OnLanguageChanged(lang) })
		return r, nil
	case key.Matches(msg, r.keymap.Theme):
		if err := r.sess.ToggleTheme(context.Background()); err != nil {
			r.statusFlash = "Theme not saved: " + err.Error()
		}
		r.applyTheme()
		return r, nil
	case key.Matches(msg, r.keymap.Font):
		r.statusFlash = fmt.Sprintf("Font size %dpx", r.sess.CycleFontSize())
		return r, nil
	case key.Matches(msg, r.keymap.Clear):
		r.sess.Clear()
		r.outputTop = 0
		return r, nil
	case key.Matches(msg, r.keymap.Copy):
		text := r.sess.Code()
		r.dispatchController(func(c Controller) { c.OnCopy(text) })
		return r, nil
	case key.Matches(msg, r.keymap.Export):
		lang, text := r.sess.Language(), r.sess.Code()
		r.dispatchController(func(c Controller) { c.OnExport(lang, text) })
		return r, nil
	case key.Matches(msg, r.keymap.Fullscreen):
		r.sess.ToggleFullscreen()
		return r, nil
	case key.Matches(msg, r.keymap.Help):
		r.helpOpen = true
		r.overlayVel = 0
		if r.noMotion {
			r.overlayPos = 1
			return r, nil
		}
		r.overlayPos = 0
		return r, animateTickCmd()
	}

	switch msg.Code {
	case tea.KeyPgUp:
		r.outputTop = max(0, r.outputTop-5)
		return r, nil
	case tea.KeyPgDown:
		r.outputTop += 5
		return r, nil
	}

	if k, ok := editor.KeyFromTea(msg); ok {
		r.sess.Edit(k)
	}
	return r, nil
}

func (r *Root) handlePaste(content string) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("paste:%d", len(content)))
	if r.helpOpen || content == "" {
		return r, nil
	}
	r.sess.Paste(content)
	return r, nil
}

func (r *Root) startRun() tea.Cmd {
	t, err := r.sess.BeginRun()
	switch {
	case errors.Is(err, session.ErrRunning):
		return nil
	case err != nil:
		// Blank buffer: the session already settled to Failed.
		r.outputTop = 0
		return nil
	}
	r.outputTop = 0
	r.statusFlash = ""
	r.syncRunBinding()
	r.dispatchController(func(c Controller) { c.OnRun(t) })
	return spinnerTickCmd(r.spin)
}

// syncRunBinding disables the run key while a run is in flight so the help
// line drops it.
func (r *Root) syncRunBinding() {
	r.keymap.Run.SetEnabled(r.sess.CanRun())
}

func (r *Root) applyTheme() {
	r.theme = ThemeFor(r.sess.Theme())
	r.spin.Style = r.theme.Accent
	if r.sess.Theme() == session.ThemeLight {
		r.help.Styles = help.DefaultLightStyles()
	} else {
		r.help.Styles = help.DefaultDarkStyles()
	}
	if r.mdStyle != r.theme.Markdown {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.theme.Markdown),
			glamour.WithWordWrap(64),
		)
		if err != nil {
			renderer = nil
		}
		r.markdown = renderer
		r.mdStyle = r.theme.Markdown
	}
}

func (r *Root) renderMain() string {
	w, h := r.cols, r.rows
	mode := DetermineLayoutMode(w, h)
	r.layout = mode
	r.syncRunBinding()

	if mode == LayoutTooSmall {
		msg := []string{
			"Terminal too small",
			fmt.Sprintf("Current: %dx%d", w, h),
			fmt.Sprintf("Minimum: %dx%d", MinCols, MinRows),
			"Resize the terminal to continue.",
		}
		panel := r.drawPanel("Resize Required", msg, min(50, w), min(8, h))
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, panel)
	}

	header := r.headerText()
	status := r.statusText()
	bodyH := max(3, h-2)

	var body string
	switch {
	case r.sess.Fullscreen():
		body = r.renderEditorPanel(w, bodyH)
	case mode == LayoutWide:
		outW := max(30, w*2/5)
		edW := w - outW
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			r.renderEditorPanel(edW, bodyH),
			r.renderOutputPanel(outW, bodyH),
		)
	default:
		outH := max(5, bodyH/3)
		edH := bodyH - outH
		body = r.renderEditorPanel(w, edH) + "\n" + r.renderOutputPanel(w, outH)
	}
	return header + "\n" + body + "\n" + status
}

func (r *Root) headerText() string {
	lang := r.sess.Language()
	file := export.FileName(lang)
	if lang.Color != "" {
		file = lipgloss.NewStyle().Foreground(lipgloss.Color(lang.Color)).Bold(true).Render(file)
	}
	parts := []string{
		"Code Runner",
		file,
		lang.Name,
		fmt.Sprintf("%dpx", r.sess.FontSize()),
		r.sess.Theme().String(),
	}
	if r.sess.Fullscreen() {
		parts = append(parts, "fullscreen")
	}
	txt := strings.Join(parts, " | ")
	if r.debug {
		txt = fmt.Sprintf("%s | %dx%d %v", txt, r.cols, r.rows, r.layout)
	}
	txt = truncateANSI(txt, max(1, r.cols-2))
	return r.theme.Header.Width(max(1, r.cols)).Render(txt)
}

func (r *Root) statusText() string {
	keys := r.help.View(r.keymap)
	if r.sess.Copied() {
		keys += " | " + r.theme.Pass.Render("Copied!")
	}
	if r.statusFlash != "" {
		keys += " | " + r.statusFlash
	}
	keys = truncateANSI(keys, max(1, r.cols-2))
	return r.theme.Status.Width(max(1, r.cols)).Render(keys)
}

func (r *Root) renderEditorPanel(width, height int) string {
	innerW := max(1, width-2)
	innerH := max(1, height-2)
	buf := r.sess.Buffer()
	lines := editor.Lines(buf.Text)
	caretLine, caretCol := editor.CaretLineCol(buf)

	if caretLine < r.editorTop {
		r.editorTop = caretLine
	}
	if caretLine >= r.editorTop+innerH {
		r.editorTop = caretLine - innerH + 1
	}
	r.editorTop = max(0, min(r.editorTop, max(0, len(lines)-1)))

	colours := r.hl.colours(r.sess.Language(), r.theme.Syntax, buf.Text)
	gw := len(fmt.Sprint(len(lines)))
	codeW := max(1, innerW-gw-1)

	// Columns scroll with the caret; the end-of-line caret cell needs room too.
	if caretCol < r.editorLeft {
		r.editorLeft = caretCol
	}
	if caretCol >= r.editorLeft+codeW {
		r.editorLeft = caretCol - codeW + 1
	}
	r.editorLeft = max(0, r.editorLeft)
	selLo, selHi := buf.Range()
	caret := buf.Caret()

	offset := 0
	for i := 0; i < r.editorTop && i < len(lines); i++ {
		offset += len([]rune(lines[i])) + 1
	}

	out := make([]string, 0, innerH)
	for i := r.editorTop; i < len(lines) && len(out) < innerH; i++ {
		gutter := r.theme.Gutter.Render(fmt.Sprintf("%*d ", gw, i+1))
		out = append(out, gutter+r.renderCodeLine([]rune(lines[i]), offset, r.editorLeft, codeW, colours, selLo, selHi, caret))
		offset += len([]rune(lines[i])) + 1
	}
	title := "Editor"
	if r.sess.Fullscreen() {
		title = "Editor (fullscreen)"
	}
	return r.drawPanel(title, out, width, height)
}

// renderCodeLine styles runes [start, start+len(line)) of the buffer, showing
// width columns from column left. The caret is drawn as a reversed cell,
// including one past the last rune.
func (r *Root) renderCodeLine(line []rune, start, left, width int, colours []string, selLo, selHi, caret int) string {
	var b strings.Builder
	var seg strings.Builder
	var segStyle lipgloss.Style
	segKey := ""
	flush := func() {
		if seg.Len() > 0 {
			b.WriteString(segStyle.Render(seg.String()))
			seg.Reset()
		}
	}

	end := min(len(line), left+width)
	for i := left; i < end; i++ {
		off := start + i
		colour := ""
		if off < len(colours) {
			colour = colours[off]
		}
		selected := off >= selLo && off < selHi
		atCaret := off == caret
		k := fmt.Sprintf("%s|%t|%t", colour, selected, atCaret)
		if k != segKey {
			flush()
			segKey = k
			segStyle = r.theme.PanelBody
			if colour != "" {
				segStyle = segStyle.Foreground(lipgloss.Color(colour))
			}
			if selected {
				segStyle = segStyle.Inherit(r.theme.Selection)
			}
			if atCaret {
				segStyle = segStyle.Inherit(r.theme.Caret)
			}
		}
		ch := line[i]
		if ch == '\t' {
			ch = ' '
		}
		seg.WriteRune(ch)
	}
	flush()
	if caret == start+len(line) && len(line) >= left && len(line) < left+width {
		b.WriteString(r.theme.Caret.Render(" "))
	}
	return b.String()
}

func (r *Root) renderOutputPanel(width, height int) string {
	innerW := max(1, width-2)
	innerH := max(1, height-2)
	st := r.sess.State()

	var lines []string
	switch st.Phase {
	case session.Running:
		lines = []string{
			strings.TrimSpace(r.spin.View()) + " " + r.theme.Accent.Render(fmt.Sprintf("Executing %s code...", r.sess.Language().Name)),
		}
	case session.Failed:
		lines = append(lines, r.theme.Fail.Render("Execution Error"), "")
		for _, l := range wrapLines(st.Error, innerW) {
			lines = append(lines, r.theme.Fail.Render(l))
		}
	case session.Succeeded:
		body := wrapLines(st.Output, innerW)
		r.outputTop = max(0, min(r.outputTop, max(0, len(body)-(innerH-2))))
		lines = append(lines, r.theme.Pass.Render("Output"), "")
		lines = append(lines, body[r.outputTop:]...)
	default:
		lines = []string{
			r.theme.Muted.Render("Ready to execute"),
			"",
			r.theme.Muted.Render("Press ^R to run your code."),
		}
	}
	return r.drawPanel("Output", lines, width, height)
}

func (r *Root) renderHelpOverlay() string {
	w := min(72, max(20, r.cols-4))
	h := min(26, max(6, r.rows-2))
	// The overlay grows from a fifth of its height while the spring settles.
	h = max(3, int(float64(h)*max(0.2, min(1, r.overlayPos))))
	text := helpMarkdown
	if r.markdown != nil {
		if out, err := r.markdown.Render(helpMarkdown); err == nil {
			text = out
		}
	}
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	return r.drawPanel("Help (Esc to close)", lines, w, h)
}

const helpMarkdown = `# Code Runner

Write code in the editor and press **Ctrl+R** to run it on the remote
runner for the selected language.

| Key | Action |
|-----|--------|
| Ctrl+R | Run the buffer |
| Ctrl+L | Next language (resets the buffer) |
| Ctrl+K | Clear output |
| Ctrl+Y | Copy the buffer |
| Ctrl+S | Download as main.<ext> |
| Ctrl+T | Toggle dark/light theme |
| Ctrl+F | Cycle font size |
| F11 | Fullscreen editor |
| Ctrl+Q | Quit |

Brackets and quotes are closed automatically. Tab inserts two spaces.
`

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	v := "│"
	tl := "┌"
	tr := "┐"
	bl := "└"
	br := "┘"
	if r.ascii {
		h = "-"
		v = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := r.theme.PanelBorder.Render(tl + strings.Repeat(h, innerW) + tr)
	if title != "" && innerW > 4 {
		t := trimForWidth(" "+title+" ", innerW-2)
		rest := innerW - ansi.StringWidth(t) - 1
		top = r.theme.PanelBorder.Render(tl+h) + r.theme.PanelTitle.Render(t) +
			r.theme.PanelBorder.Render(strings.Repeat(h, max(0, rest))+tr)
	}

	out := make([]string, 0, height)
	out = append(out, top)
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		out = append(out, r.theme.PanelBorder.Render(v)+padANSI(line, innerW)+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

func wrapLines(s string, width int) []string {
	s = strings.ReplaceAll(ansi.Strip(s), "\t", "    ")
	s = strings.TrimRight(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	var out []string
	for _, line := range strings.Split(s, "\n") {
		runes := []rune(line)
		for len(runes) > width {
			out = append(out, string(runes[:width]))
			runes = runes[width:]
		}
		out = append(out, string(runes))
	}
	return out
}

// padANSI pads or truncates a styled line to exactly width cells.
func padANSI(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

func truncateANSI(s string, width int) string {
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

func composeOverlay(base, overlay string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	ow := 1
	for _, line := range overlayLines {
		ow = max(ow, len([]rune(line)))
	}
	ow = min(ow, cols)
	oh := min(len(overlayLines), rows)
	startRow := (rows - oh) / 2
	startCol := max(0, (cols-ow)/2)

	for i := 0; i < oh; i++ {
		row := startRow + i
		dst := []rune(baseLines[row])
		src := []rune(overlayLines[i])
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}

	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"message_type", msgType,
		"layout", r.layout.String(),
		"cols", r.cols,
		"rows", r.rows,
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}
