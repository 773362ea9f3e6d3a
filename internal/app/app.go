package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"coderunner/internal/catalog"
	"coderunner/internal/editor"
	"coderunner/internal/export"
	"coderunner/internal/runner"
	"coderunner/internal/session"
	"coderunner/internal/state"
	"coderunner/internal/telemetry"
	"coderunner/internal/ui"
)

// App wires the session to its collaborators and implements ui.Controller.
// Once the view is running the session belongs to the UI loop; App only
// reads its immutable id and talks back through ui.View.
type App struct {
	cfg Config

	logger   *telemetry.Logger
	store    state.Store
	catalog  *catalog.Catalog
	sess     *session.Session
	exec     session.Executor
	copier   Copier
	exporter Exporter

	newView func(*session.Session, ui.Options) ui.View
	view    ui.View

	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time

	mu     sync.Mutex
	closed bool
	runs   sync.WaitGroup
}

type Option func(*App)

func WithExecutor(e session.Executor) Option {
	return func(a *App) { a.exec = e }
}

func WithStore(s state.Store) Option {
	return func(a *App) { a.store = s }
}

func WithCopier(c Copier) Option {
	return func(a *App) { a.copier = c }
}

func WithExporter(e Exporter) Option {
	return func(a *App) { a.exporter = e }
}

// WithViewFactory replaces the Bubble Tea view, mainly for tests.
func WithViewFactory(fn func(*session.Session, ui.Options) ui.View) Option {
	return func(a *App) { a.newView = fn }
}

func New(cfg Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}

	logger, err := telemetry.NewLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}
	a.logger = logger

	if a.store == nil {
		store, err := OpenStore(context.Background(), cfg)
		if err != nil {
			_ = logger.Close()
			return nil, err
		}
		a.store = store
	}

	cat, err := LoadCatalog(cfg)
	if err != nil {
		a.closeAll()
		return nil, err
	}
	a.catalog = cat

	var sessOpts []session.Option
	sessOpts = append(sessOpts, session.WithLogger(logger))
	if cfg.Language != "" {
		sessOpts = append(sessOpts, session.WithLanguage(cfg.Language))
	}
	sess, err := session.New(context.Background(), cat, a.store, sessOpts...)
	if err != nil {
		a.closeAll()
		return nil, err
	}
	a.sess = sess
	a.logger = logger.With(map[string]any{"session": sess.ID()})

	if a.exec == nil {
		a.exec = runner.NewClient(
			runner.WithLogger(a.logger),
			runner.WithUserAgent(cfg.UserAgent),
		)
	}
	if a.copier == nil {
		a.copier = export.Copier{Clipboard: export.SystemClipboard{}, Logger: a.logger}
	}
	if a.exporter == nil {
		a.exporter = export.Exporter{Dir: cfg.ExportDir, Logger: a.logger}
	}
	if a.newView == nil {
		a.newView = func(s *session.Session, o ui.Options) ui.View { return ui.New(s, o) }
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	return a, nil
}

// OpenStore returns the sqlite store under DataDir, or an in-memory store in
// ephemeral mode.
func OpenStore(ctx context.Context, cfg Config) (state.Store, error) {
	if cfg.Ephemeral {
		return state.NewMemory(), nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	store, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"))
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// LoadCatalog applies the optional YAML override and endpoint base to the
// built-in catalog.
func LoadCatalog(cfg Config) (*catalog.Catalog, error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}
	if cfg.EndpointBase != "" {
		rebased, err := cat.WithEndpointBase(cfg.EndpointBase)
		if err != nil {
			return nil, err
		}
		cat = rebased
	}
	return cat, nil
}

func (a *App) Session() *session.Session { return a.sess }
func (a *App) Catalog() *catalog.Catalog { return a.catalog }
func (a *App) Store() state.Store        { return a.store }
func (a *App) Logger() *telemetry.Logger { return a.logger }

// Run starts the interactive editor and blocks until it exits. In-flight
// executions are cancelled on the way out.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{
		"lang":      a.sess.Language().ID,
		"ephemeral": a.cfg.Ephemeral,
		"languages": len(a.catalog.List()),
	})

	a.view = a.newView(a.sess, ui.Options{
		ASCIIOnly: a.cfg.ASCIIOnly,
		Debug:     a.cfg.DebugLayout,
		NoMotion:  a.cfg.NoMotion,
	})
	a.view.SetController(a)

	stop := context.AfterFunc(ctx, a.view.Stop)
	defer stop()

	err := a.view.Run()
	a.drain()
	if err != nil {
		a.logger.Error("app.view_failed", map[string]any{"error": err.Error()})
	}
	a.logger.Info("app.stop", nil)
	return err
}

// RunSource is the headless path: select lang, load source into the buffer
// and execute it through the same session state machine as the editor.
func (a *App) RunSource(ctx context.Context, langID, source string) (session.ExecState, error) {
	if langID != "" && langID != a.sess.Language().ID {
		if err := a.sess.SelectLanguage(langID); err != nil {
			return session.ExecState{}, err
		}
	}
	a.sess.SetBuffer(editor.NewBuffer(source))

	t, err := a.sess.BeginRun()
	if err != nil {
		// Blank input settles the session to Failed without a request.
		return a.sess.State(), nil
	}
	out := a.exec.Run(ctx, t.Language, t.Source)
	a.sess.Complete(t, out)
	a.record(t, out)
	return a.sess.State(), nil
}

func (a *App) OnRun(t session.Ticket) {
	if !a.beginWork() {
		return
	}
	defer a.runs.Done()

	out := a.exec.Run(a.ctx, t.Language, t.Source)
	if a.view != nil {
		a.view.CompleteRun(t, out)
	}
	a.record(t, out)
}

func (a *App) OnLanguageChanged(lang catalog.Language) {
	// A request still in flight keeps running; its ticket is stale and the
	// session drops the result.
	a.logger.Info("app.language_changed", map[string]any{"lang": lang.ID})
}

func (a *App) OnCopy(text string) {
	if err := a.copier.Copy(a.ctx, text); err != nil {
		a.flash("Copy failed: " + err.Error())
		return
	}
	if a.view != nil {
		a.view.MarkCopied()
	}
}

func (a *App) OnExport(lang catalog.Language, text string) {
	path, err := a.exporter.Export(lang, text)
	if err != nil {
		a.flash("Download failed: " + err.Error())
		return
	}
	a.flash("Saved " + path)
}

func (a *App) OnQuit() {
	a.logger.Info("app.quit", nil)
	if a.view != nil {
		a.view.Stop()
	}
}

func (a *App) flash(msg string) {
	if a.view != nil {
		a.view.FlashStatus(msg)
	}
}

func (a *App) record(t session.Ticket, out runner.Outcome) {
	rec := runRecord(a.sess.ID(), t, out, a.now())
	if _, err := a.store.RecordRun(context.Background(), rec); err != nil {
		a.logger.Error("history.record_failed", map[string]any{"error": err.Error()})
	}
}

// Close releases the store and the log file.
func (a *App) Close() error {
	a.drain()
	return a.closeAll()
}

func (a *App) beginWork() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false
	}
	a.runs.Add(1)
	return true
}

// drain refuses new runs, cancels the ones in flight and waits for them.
func (a *App) drain() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
	a.runs.Wait()
}

func (a *App) closeAll() error {
	var firstErr error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			firstErr = fmt.Errorf("close store: %w", err)
		}
	}
	if err := a.logger.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close log: %w", err)
	}
	return firstErr
}

var _ ui.Controller = (*App)(nil)
