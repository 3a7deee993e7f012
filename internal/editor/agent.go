package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/captiveportal/portal-cms/internal/broadcast"
	"github.com/captiveportal/portal-cms/internal/content"
	"github.com/captiveportal/portal-cms/pkg/logger"
)

var (
	// ErrUnauthorized is returned by a ContentAPI when the session is no longer valid.
	ErrUnauthorized = errors.New("session not authorized")
	// ErrConflict is returned by a ContentAPI when the server rejected a stale save.
	ErrConflict = errors.New("server rejected save: content changed")

	ErrSaveInProgress = errors.New("a save is already in progress")
	ErrSessionExpired = errors.New("session expired, log in again")
	ErrSaveAborted    = errors.New("save cancelled, editor reloaded from server")
)

// DefaultDebounce is how long a clean editor waits after a change event
// before refetching.
const DefaultDebounce = 500 * time.Millisecond

// State is the editor's unsaved-changes state.
type State int

const (
	Clean State = iota
	Dirty
	Saving
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// SaveResult describes a Save that returned without error.
type SaveResult int

const (
	SaveNoChanges SaveResult = iota
	SaveCompleted
)

// ContentAPI is the server surface the agent syncs against.
type ContentAPI interface {
	Fetch(ctx context.Context) (*content.Document, error)
	// Save persists doc and returns the stamp the server assigned. base is
	// the editor's last observed server timestamp.
	Save(ctx context.Context, doc *content.Document, base int64) (int64, error)
}

// Prompter is how the agent asks the human operator to decide.
type Prompter interface {
	// ConfirmOverwrite is asked before saving over someone else's changes.
	ConfirmOverwrite(r Report) bool
	// OfferReload is asked when a remote change arrives while the editor
	// holds unsaved work. Returning true discards the local edits.
	OfferReload(message string) bool
	Info(message string)
}

// Agent holds one editor's working copy and reconciles it with the server.
type Agent struct {
	api      ContentAPI
	prompt   Prompter
	session  string
	debounce time.Duration
	onLogout func()

	mu               sync.Mutex
	state            State
	baseline         *content.Document
	working          *content.Document
	lastServerUpdate int64
	timer            *time.Timer
}

type Option func(*Agent)

// WithSession sets the session token used to ignore the agent's own change events.
func WithSession(token string) Option {
	return func(a *Agent) { a.session = token }
}

func WithDebounce(d time.Duration) Option {
	return func(a *Agent) { a.debounce = d }
}

// WithLogoutHook is called when a save reports the session expired.
func WithLogoutHook(fn func()) Option {
	return func(a *Agent) { a.onLogout = fn }
}

func NewAgent(api ContentAPI, p Prompter, opts ...Option) *Agent {
	if p == nil {
		p = declinePrompter{}
	}
	a := &Agent{api: api, prompt: p, debounce: DefaultDebounce, working: content.Default()}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// LastServerUpdate is the server timestamp the working copy is based on.
func (a *Agent) LastServerUpdate() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastServerUpdate
}

// Working returns a copy of the working document.
func (a *Agent) Working() *content.Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	return content.Clone(a.working)
}

// Load adopts the server document as both baseline and working copy.
func (a *Agent) Load(ctx context.Context) error {
	doc, err := a.api.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	a.mu.Lock()
	a.adopt(doc)
	a.mu.Unlock()
	return nil
}

// Reload discards local edits and adopts the server state. It refuses while a
// save is in flight.
func (a *Agent) Reload(ctx context.Context) error {
	if a.State() == Saving {
		return ErrSaveInProgress
	}
	doc, err := a.api.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("reload content: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == Saving {
		return ErrSaveInProgress
	}
	a.adopt(doc)
	return nil
}

// Resume starts from an offline working copy last synced at since.
func (a *Agent) Resume(ctx context.Context, working *content.Document, since int64) error {
	server, err := a.api.Fetch(ctx)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.working = content.Normalize(content.Clone(working))
	a.lastServerUpdate = since
	if err != nil {
		logger.Warnf("resume: fetch baseline: %v", err)
		a.baseline = nil
		a.state = Dirty
		return nil
	}
	a.baseline = content.Normalize(server)
	a.state = a.dirtiness()
	return nil
}

// Mutate applies fn to the working copy and recomputes the dirty state.
func (a *Agent) Mutate(fn func(d *content.Document)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.working)
	if a.state != Saving {
		a.state = a.dirtiness()
	}
}

// OnBroadcast reacts to a push-channel event. A clean editor refetches after
// the debounce delay; an editor with unsaved work is only warned.
func (a *Agent) OnBroadcast(ctx context.Context, evt broadcast.Event) {
	if evt.Type != broadcast.TypeContentUpdated {
		return
	}
	if a.session != "" && evt.SenderSessionID == a.session {
		return
	}

	a.mu.Lock()
	st := a.state
	if st == Clean {
		if a.timer != nil {
			a.timer.Stop()
		}
		bg := context.WithoutCancel(ctx)
		a.timer = time.AfterFunc(a.debounce, func() { a.refreshIfClean(bg) })
	}
	a.mu.Unlock()

	switch st {
	case Clean:
		return
	case Saving:
		// the in-flight save runs its own conflict check
		a.prompt.Info("Another user saved changes while your save was in progress.")
		return
	}
	msg := "Another user saved changes. You have unsaved work; save soon to avoid conflicts."
	if a.prompt.OfferReload(msg) {
		if err := a.Reload(ctx); err != nil {
			logger.Errorf("reload after remote change: %v", err)
		}
	}
}

func (a *Agent) refreshIfClean(ctx context.Context) {
	doc, err := a.api.Fetch(ctx)
	if err != nil {
		logger.Errorf("refresh after remote change: %v", err)
		return
	}
	a.mu.Lock()
	if a.state != Clean {
		a.mu.Unlock()
		logger.Infof("remote change ignored, editor has unsaved work")
		return
	}
	a.adopt(doc)
	a.mu.Unlock()
	a.prompt.Info("Content updated - reloaded")
}

// Save pushes the working copy, asking before overwriting a newer server state.
func (a *Agent) Save(ctx context.Context) (SaveResult, error) {
	a.mu.Lock()
	switch a.state {
	case Saving:
		a.mu.Unlock()
		return SaveNoChanges, ErrSaveInProgress
	case Clean:
		a.mu.Unlock()
		a.prompt.Info("No changes to save")
		return SaveNoChanges, nil
	}
	a.state = Saving
	snapshot := content.Clone(a.working)
	since := a.lastServerUpdate
	a.mu.Unlock()

	server, err := a.api.Fetch(ctx)
	if err != nil {
		logger.Warnf("conflict check failed, saving anyway: %v", err)
	} else if r := Detect(server, snapshot, since); r.Window {
		if !a.prompt.ConfirmOverwrite(r) {
			a.mu.Lock()
			a.adopt(server)
			a.mu.Unlock()
			a.prompt.Info("Save cancelled. Loaded latest content from server.")
			return SaveNoChanges, ErrSaveAborted
		}
		logger.Warnf("overwriting server content modified at %d (baseline %d)", r.ServerModified, since)
	}

	stamp, err := a.api.Save(ctx, snapshot, since)
	if err != nil {
		a.mu.Lock()
		a.state = Dirty
		a.mu.Unlock()
		if errors.Is(err, ErrUnauthorized) {
			if a.onLogout != nil {
				a.onLogout()
			}
			return SaveNoChanges, ErrSessionExpired
		}
		return SaveNoChanges, fmt.Errorf("save content: %w", err)
	}

	a.mu.Lock()
	snapshot.LastModified = stamp
	a.baseline = content.Normalize(snapshot)
	a.lastServerUpdate = stamp
	a.state = a.dirtiness()
	a.mu.Unlock()
	a.prompt.Info("Configuration saved successfully")
	return SaveCompleted, nil
}

// Close stops a pending debounced refresh.
func (a *Agent) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
	}
}

// adopt must be called with mu held.
func (a *Agent) adopt(doc *content.Document) {
	doc = content.Normalize(content.Clone(doc))
	a.baseline = doc
	a.working = content.Clone(doc)
	a.lastServerUpdate = doc.LastModified
	a.state = Clean
}

// dirtiness must be called with mu held.
func (a *Agent) dirtiness() State {
	if a.baseline == nil || !content.Equal(a.baseline, a.working) {
		return Dirty
	}
	return Clean
}

type declinePrompter struct{}

func (declinePrompter) ConfirmOverwrite(Report) bool { return false }
func (declinePrompter) OfferReload(string) bool      { return false }
func (declinePrompter) Info(msg string)              { logger.Infof("%s", msg) }
