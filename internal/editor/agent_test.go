package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captiveportal/portal-cms/internal/broadcast"
	"github.com/captiveportal/portal-cms/internal/content"
)

type fakeAPI struct {
	mu       sync.Mutex
	doc      *content.Document
	stamp    int64
	fetches  int
	saves    int
	fetchErr error
	saveErr  error
	// onFetch runs before a fetch returns, used to inject concurrent saves.
	onFetch func()
}

func newFakeAPI() *fakeAPI {
	d := content.Default()
	d.LastModified = 1000
	return &fakeAPI{doc: d, stamp: 1000}
}

func (f *fakeAPI) Fetch(ctx context.Context) (*content.Document, error) {
	if f.onFetch != nil {
		f.onFetch()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return content.Clone(f.doc), nil
}

func (f *fakeAPI) Save(ctx context.Context, doc *content.Document, base int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.saves++
	f.stamp++
	f.doc = content.Clone(doc)
	f.doc.LastModified = f.stamp
	return f.stamp, nil
}

// remoteSave simulates another editor saving.
func (f *fakeAPI) remoteSave(fn func(d *content.Document)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.doc)
	f.stamp++
	f.doc.LastModified = f.stamp
}

type fakePrompter struct {
	mu      sync.Mutex
	confirm bool
	reload  bool
	reports []Report
	offers  []string
	infos   []string
}

func (p *fakePrompter) ConfirmOverwrite(r Report) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, r)
	return p.confirm
}

func (p *fakePrompter) OfferReload(msg string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offers = append(p.offers, msg)
	return p.reload
}

func (p *fakePrompter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.infos = append(p.infos, msg)
}

func loaded(t *testing.T, api *fakeAPI, p Prompter, opts ...Option) *Agent {
	t.Helper()
	a := NewAgent(api, p, append([]Option{WithDebounce(10 * time.Millisecond)}, opts...)...)
	require.NoError(t, a.Load(context.Background()))
	t.Cleanup(a.Close)
	return a
}

func addChip(d *content.Document) { AddChip(d, content.Chip{NameEnglish: "new"}) }

func TestMutateTracksDirtiness(t *testing.T) {
	a := loaded(t, newFakeAPI(), &fakePrompter{})
	assert.Equal(t, Clean, a.State())
	assert.Equal(t, int64(1000), a.LastServerUpdate())

	var id string
	a.Mutate(func(d *content.Document) { id = AddChip(d, content.Chip{}) })
	assert.Equal(t, Dirty, a.State())

	a.Mutate(func(d *content.Document) { d.Chips, _ = RemoveByID(d.Chips, id, ChipID) })
	assert.Equal(t, Clean, a.State(), "reverting edits returns to clean")
}

func TestSaveCleanIsNoop(t *testing.T) {
	api := newFakeAPI()
	p := &fakePrompter{}
	a := loaded(t, api, p)
	res, err := a.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SaveNoChanges, res)
	assert.Zero(t, api.saves)
	assert.Contains(t, p.infos, "No changes to save")
}

func TestSaveWithoutConflict(t *testing.T) {
	api := newFakeAPI()
	p := &fakePrompter{}
	a := loaded(t, api, p)
	a.Mutate(addChip)

	res, err := a.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SaveCompleted, res)
	assert.Equal(t, Clean, a.State())
	assert.Equal(t, int64(1001), a.LastServerUpdate())
	assert.Empty(t, p.reports, "no prompt without a conflict window")
	assert.Len(t, api.doc.Chips, 1)
}

func TestSaveConflictDeclinedReloads(t *testing.T) {
	api := newFakeAPI()
	p := &fakePrompter{confirm: false}
	a := loaded(t, api, p)
	a.Mutate(addChip)
	api.remoteSave(func(d *content.Document) {
		d.HeroBanners = []content.HeroBanner{{ID: "remote"}}
	})

	_, err := a.Save(context.Background())
	require.ErrorIs(t, err, ErrSaveAborted)
	require.Len(t, p.reports, 1)
	r := p.reports[0]
	assert.True(t, r.Window)
	require.Len(t, r.Conflicts, 2)
	assert.Equal(t, "1 on server vs 0 in editor", r.Conflicts[0].Summary)
	assert.Equal(t, "0 on server vs 1 in editor", r.Conflicts[1].Summary)

	assert.Equal(t, 0, api.saves)
	assert.Equal(t, Clean, a.State())
	assert.Len(t, a.Working().HeroBanners, 1, "editor adopted server state")
	assert.Empty(t, a.Working().Chips)
}

func TestSaveConflictConfirmedOverwrites(t *testing.T) {
	api := newFakeAPI()
	p := &fakePrompter{confirm: true}
	a := loaded(t, api, p)
	a.Mutate(addChip)
	api.remoteSave(func(d *content.Document) { d.HeroBanners = []content.HeroBanner{{ID: "remote"}} })

	res, err := a.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SaveCompleted, res)
	assert.Empty(t, api.doc.HeroBanners, "last writer wins")
	assert.Len(t, api.doc.Chips, 1)
}

func TestSaveProceedsWhenCheckFails(t *testing.T) {
	api := newFakeAPI()
	a := loaded(t, api, &fakePrompter{})
	a.Mutate(addChip)
	api.fetchErr = errors.New("network down")

	res, err := a.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SaveCompleted, res)
}

func TestSaveUnauthorizedLogsOut(t *testing.T) {
	api := newFakeAPI()
	loggedOut := false
	a := loaded(t, api, &fakePrompter{}, WithLogoutHook(func() { loggedOut = true }))
	a.Mutate(addChip)
	api.saveErr = ErrUnauthorized

	_, err := a.Save(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, loggedOut)
	assert.Equal(t, Dirty, a.State())
	assert.Len(t, a.Working().Chips, 1, "edits are kept")
}

func TestSaveFailureKeepsDirty(t *testing.T) {
	api := newFakeAPI()
	a := loaded(t, api, &fakePrompter{})
	a.Mutate(addChip)
	api.saveErr = errors.New("500")
	_, err := a.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, Dirty, a.State())
}

func TestConcurrentSaveRejected(t *testing.T) {
	api := newFakeAPI()
	a := loaded(t, api, &fakePrompter{})
	a.Mutate(addChip)

	entered := make(chan struct{})
	release := make(chan struct{})
	api.onFetch = func() {
		close(entered)
		<-release
	}
	done := make(chan error, 1)
	go func() {
		_, err := a.Save(context.Background())
		done <- err
	}()
	<-entered
	assert.Equal(t, Saving, a.State())
	api.onFetch = nil
	_, err := a.Save(context.Background())
	assert.ErrorIs(t, err, ErrSaveInProgress)
	close(release)
	require.NoError(t, <-done)
}

func TestBroadcastWhileCleanRefetches(t *testing.T) {
	api := newFakeAPI()
	p := &fakePrompter{}
	a := loaded(t, api, p, WithSession("me"))
	api.remoteSave(func(d *content.Document) { d.Chips = []content.Chip{{ID: "remote"}} })

	a.OnBroadcast(context.Background(), broadcast.Event{Type: broadcast.TypeContentUpdated, SenderSessionID: "other"})
	require.Eventually(t, func() bool { return a.LastServerUpdate() == 1001 }, time.Second, 5*time.Millisecond)
	assert.Len(t, a.Working().Chips, 1)
	assert.Equal(t, Clean, a.State())
	assert.Empty(t, p.offers)
}

func TestBroadcastDebounceCoalesces(t *testing.T) {
	api := newFakeAPI()
	a := loaded(t, api, &fakePrompter{}, WithDebounce(50*time.Millisecond))
	before := api.fetches
	for i := 0; i < 5; i++ {
		a.OnBroadcast(context.Background(), broadcast.Event{Type: broadcast.TypeContentUpdated})
	}
	time.Sleep(150 * time.Millisecond)
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, before+1, api.fetches)
}

func TestBroadcastWhileDirtyWarnsOnly(t *testing.T) {
	api := newFakeAPI()
	p := &fakePrompter{reload: false}
	a := loaded(t, api, p)
	a.Mutate(addChip)
	api.remoteSave(func(d *content.Document) { d.HeroBanners = []content.HeroBanner{{ID: "r"}} })

	a.OnBroadcast(context.Background(), broadcast.Event{Type: broadcast.TypeContentUpdated, SenderSessionID: "other"})
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, p.offers, 1)
	assert.Equal(t, Dirty, a.State())
	assert.Len(t, a.Working().Chips, 1, "unsaved edits are never discarded automatically")
	assert.Equal(t, int64(1000), a.LastServerUpdate())
}

func TestBroadcastWhileDirtyReloadAccepted(t *testing.T) {
	api := newFakeAPI()
	a := loaded(t, api, &fakePrompter{reload: true})
	a.Mutate(addChip)
	api.remoteSave(func(d *content.Document) {})

	a.OnBroadcast(context.Background(), broadcast.Event{Type: broadcast.TypeContentUpdated})
	assert.Equal(t, Clean, a.State())
	assert.Equal(t, int64(1001), a.LastServerUpdate())
}

func TestBroadcastWhileSavingDoesNotReload(t *testing.T) {
	api := newFakeAPI()
	p := &fakePrompter{reload: true, confirm: true}
	a := loaded(t, api, p)
	a.Mutate(addChip)

	var once sync.Once
	var midState State
	var reloadErr, nestedErr error
	api.onFetch = func() {
		once.Do(func() {
			a.OnBroadcast(context.Background(), broadcast.Event{Type: broadcast.TypeContentUpdated, SenderSessionID: "other"})
			reloadErr = a.Reload(context.Background())
			midState = a.State()
			a.Mutate(func(d *content.Document) { d.Chips[0].Link = "/late" })
			_, nestedErr = a.Save(context.Background())
		})
	}

	res, err := a.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SaveCompleted, res)
	assert.Empty(t, p.offers, "no reload is offered while saving")
	assert.ErrorIs(t, reloadErr, ErrSaveInProgress)
	assert.Equal(t, Saving, midState)
	assert.ErrorIs(t, nestedErr, ErrSaveInProgress)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, 1, api.saves)
}

func TestOwnBroadcastIgnored(t *testing.T) {
	api := newFakeAPI()
	a := loaded(t, api, &fakePrompter{}, WithSession("me"))
	before := api.fetches
	a.OnBroadcast(context.Background(), broadcast.Event{Type: broadcast.TypeContentUpdated, SenderSessionID: "me"})
	time.Sleep(40 * time.Millisecond)
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, before, api.fetches)
}

func TestEditDuringDebounceIsKept(t *testing.T) {
	api := newFakeAPI()
	a := loaded(t, api, &fakePrompter{}, WithDebounce(30*time.Millisecond))
	api.remoteSave(func(d *content.Document) {})
	a.OnBroadcast(context.Background(), broadcast.Event{Type: broadcast.TypeContentUpdated})
	a.Mutate(addChip)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, Dirty, a.State())
	assert.Len(t, a.Working().Chips, 1)
}

func TestResume(t *testing.T) {
	api := newFakeAPI()
	a := NewAgent(api, &fakePrompter{confirm: false})
	offline := content.Default()
	addChip(offline)
	api.remoteSave(func(d *content.Document) {})

	require.NoError(t, a.Resume(context.Background(), offline, 1000))
	assert.Equal(t, Dirty, a.State())
	_, err := a.Save(context.Background())
	require.ErrorIs(t, err, ErrSaveAborted, "server moved past the offline baseline")
}
