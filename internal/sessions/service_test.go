package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fake repo for testing
type fakeRepo struct {
	store   map[string]*Session
	deletes int
	failGet error
}

func (f *fakeRepo) Create(ctx context.Context, s *Session) error {
	if f.store == nil {
		f.store = map[string]*Session{}
	}
	f.store[s.Token] = s
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, token string) (*Session, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	s, ok := f.store[token]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (f *fakeRepo) Delete(ctx context.Context, token string) error {
	f.deletes++
	delete(f.store, token)
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestLoginValidateRevoke(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, "secret")
	ctx := context.Background()

	sess, err := svc.Login(ctx, "secret")
	require.NoError(t, err)
	require.Len(t, sess.Token, 64)

	st, err := svc.Validate(ctx, sess.Token)
	require.NoError(t, err)
	require.True(t, st.Valid)
	require.Equal(t, sess.ExpiresAt, st.ExpiresAt)

	require.NoError(t, svc.Revoke(ctx, sess.Token))
	st, err = svc.Validate(ctx, sess.Token)
	require.NoError(t, err)
	require.False(t, st.Valid)

	require.NoError(t, svc.Revoke(ctx, sess.Token), "revoke is idempotent")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, "secret")
	_, err := svc.Login(context.Background(), "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, repo.store)
}

func TestTokensAreDistinct(t *testing.T) {
	svc := NewService(NewMemoryRepository(), "pw")
	a, err := svc.Login(context.Background(), "pw")
	require.NoError(t, err)
	b, err := svc.Login(context.Background(), "pw")
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestValidateEvictsExpired(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := &fakeRepo{}
	svc := NewService(repo, "pw", WithTTL(time.Hour), WithClock(c.now))
	ctx := context.Background()

	sess, err := svc.Login(ctx, "pw")
	require.NoError(t, err)

	c.t = c.t.Add(59 * time.Minute)
	st, err := svc.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.True(t, st.Valid)

	c.t = c.t.Add(time.Minute)
	st, err = svc.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.False(t, st.Valid)
	assert.Equal(t, 1, repo.deletes)
	assert.Empty(t, repo.store)
}

func TestValidateEmptyAndUnknown(t *testing.T) {
	svc := NewService(&fakeRepo{}, "pw")
	st, err := svc.Validate(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, st.Valid)

	st, err = svc.Validate(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, st.Valid)
}

func TestValidateSurfacesRepoError(t *testing.T) {
	svc := NewService(&fakeRepo{failGet: errors.New("down")}, "pw")
	_, err := svc.Validate(context.Background(), "tok")
	require.Error(t, err)
}

func TestMemoryRepositoryCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	s := &Session{Token: "t1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, s))
	s.Token = "mutated"

	got, err := repo.Get(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t1", got.Token)
	assert.Equal(t, 1, repo.Len())

	require.NoError(t, repo.Delete(ctx, "t1"))
	got, err = repo.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
