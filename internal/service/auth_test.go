package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/qr_menu/internal/authclient"
	"github.com/Skotchmaster/qr_menu/internal/cache"
	"github.com/Skotchmaster/qr_menu/internal/db/dbtest"
	"github.com/Skotchmaster/qr_menu/internal/repo"
)

type fakeGateway struct {
	identities map[string]authclient.Identity
}

func (g *fakeGateway) Exchange(_ context.Context, sessionID string) (*authclient.Identity, error) {
	id, ok := g.identities[sessionID]
	if !ok {
		return nil, authclient.ErrRejected
	}
	return &id, nil
}

type memCache struct {
	entries map[string]cache.SessionEntry
	gets    int
}

func (m *memCache) Get(_ context.Context, hash string) (*cache.SessionEntry, error) {
	m.gets++
	e, ok := m.entries[hash]
	if !ok {
		return nil, cache.ErrMiss
	}
	return &e, nil
}

func (m *memCache) Set(_ context.Context, hash string, e cache.SessionEntry) error {
	m.entries[hash] = e
	return nil
}

func (m *memCache) Delete(_ context.Context, hash string) error {
	delete(m.entries, hash)
	return nil
}

func newAuthService(t *testing.T) (*AuthService, *memCache) {
	t.Helper()
	c := &memCache{entries: map[string]cache.SessionEntry{}}
	return &AuthService{
		Repo: repo.New(dbtest.Open(t)),
		Gateway: &fakeGateway{identities: map[string]authclient.Identity{
			"sid-1": {Email: "chef@example.com", Name: "Chef", SessionToken: "tok-1"},
			"sid-2": {Email: "chef@example.com", Name: "Head Chef", SessionToken: "tok-2"},
		}},
		Cache: c,
	}, c
}

func TestCreateSession_UpsertsUserByEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	first, err := svc.CreateSession(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", first.Token)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), first.ExpiresAt, time.Minute)

	second, err := svc.CreateSession(ctx, "sid-2")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "Head Chef", second.User.Name)

	for _, tok := range []string{"tok-1", "tok-2"} {
		u, err := svc.Authenticate(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, u.ID)
	}
}

func TestCreateSession_ReusedGatewayToken(t *testing.T) {
	svc, c := newAuthService(t)
	ctx := context.Background()

	first, err := svc.CreateSession(ctx, "sid-1")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "tok-1")
	require.NoError(t, err)
	require.Contains(t, c.entries, Sha256Hex("tok-1"))

	later := time.Now().UTC().Add(time.Hour)
	svc.Now = func() time.Time { return later }

	second, err := svc.CreateSession(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.NotContains(t, c.entries, Sha256Hex("tok-1"))

	stored, err := svc.Repo.GetSessionByHash(ctx, Sha256Hex("tok-1"))
	require.NoError(t, err)
	assert.WithinDuration(t, later.Add(SessionTTL), stored.ExpiresAt, time.Second)

	var n int64
	require.NoError(t, svc.Repo.DB.Table("sessions").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCreateSession_Errors(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateSession(ctx, "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateSession(ctx, "unknown")
	require.ErrorIs(t, err, ErrUpstreamAuth)
}

func TestAuthenticate(t *testing.T) {
	svc, c := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Authenticate(ctx, "nope")
	require.ErrorIs(t, err, ErrUnauthenticated)

	s, err := svc.CreateSession(ctx, "sid-1")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "tok-1")
	require.NoError(t, err)
	assert.Contains(t, c.entries, Sha256Hex("tok-1"))

	// second lookup is served from the cache even with the store gone
	require.NoError(t, svc.Repo.DB.Exec("DELETE FROM users").Error)
	u, err := svc.Authenticate(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, u.ID)
}

func TestAuthenticate_ExpiredSessionIsDeleted(t *testing.T) {
	svc, c := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateSession(ctx, "sid-1")
	require.NoError(t, err)

	svc.Now = func() time.Time { return time.Now().UTC().Add(SessionTTL + time.Hour) }
	_, err = svc.Authenticate(ctx, "tok-1")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Repo.GetSessionByHash(ctx, Sha256Hex("tok-1"))
	require.Error(t, err)
	assert.Empty(t, c.entries)
}

func TestLogout(t *testing.T) {
	svc, c := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateSession(ctx, "sid-1")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "tok-1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "tok-1"))
	require.NoError(t, svc.Logout(ctx, "tok-1"))
	require.NoError(t, svc.Logout(ctx, ""))
	assert.Empty(t, c.entries)

	_, err = svc.Authenticate(ctx, "tok-1")
	require.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestSweepExpired(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := svc.CreateSession(ctx, "sid-1")
	require.NoError(t, err)
	svc.Now = func() time.Time { return time.Now().UTC().Add(SessionTTL + time.Hour) }

	done := make(chan struct{})
	go func() {
		svc.SweepExpired(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, err := svc.Repo.GetSessionByHash(context.Background(), Sha256Hex("tok-1"))
		return err != nil
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	<-done
}
