package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/fraudwatch-ui-api/internal/adapters/authroles"
	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
	apperrors "github.com/target/fraudwatch-ui-api/internal/errors"
	mockauth "github.com/target/fraudwatch-ui-api/internal/mocks/auth"
	"github.com/target/fraudwatch-ui-api/internal/ports"
)

type sessionFixture struct {
	manager  *SessionManager
	verifier *mockauth.MockCredentialVerifier
	records  *mockauth.MemoryRecordStore
}

func newSessionFixture() *sessionFixture {
	verifier := mockauth.NewMockCredentialVerifier()
	records := mockauth.NewMemoryRecordStore()
	manager := NewSessionManager(SessionManagerOptions{
		Verifier: verifier,
		Records:  records,
		Roles:    authroles.StaticRoleMapper{AcceptCanonical: true},
	})
	return &sessionFixture{manager: manager, verifier: verifier, records: records}
}

func seedRecord(t *testing.T, f *sessionFixture, sessionID, token string, role domainauth.Role) {
	t.Helper()
	err := f.records.Save(context.Background(), sessionID, domainauth.Record{
		User:          &domainauth.User{ID: "u-1", Email: "a@example.com", Role: role},
		Token:         token,
		Authenticated: true,
	})
	require.NoError(t, err)
}

func TestSessionManager_LoginSuccess(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	sess, err := f.manager.Login(ctx, "s-1", ports.LoginInput{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.True(t, sess.Authenticated)
	assert.True(t, sess.Settled())
	require.NotNil(t, sess.User)
	assert.Equal(t, domainauth.RoleAnalyst, sess.User.Role)
	assert.Equal(t, "mock-token-1", sess.Token)

	// Durable mirror written synchronously.
	rec, err := f.records.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, rec.Authenticated)
	assert.Equal(t, "mock-token-1", rec.Token)
}

func TestSessionManager_LoginRejected(t *testing.T) {
	f := newSessionFixture()
	f.verifier.LoginFunc = func(context.Context, ports.LoginInput) (ports.LoginResult, error) {
		return ports.LoginResult{}, apperrors.InvalidCredentials()
	}

	_, err := f.manager.Login(context.Background(), "s-1", ports.LoginInput{Email: "a@example.com", Password: "bad"})
	assert.True(t, apperrors.IsInvalidCredentials(err))
	assert.Equal(t, 0, f.records.Len())
}

func TestSessionManager_FailedLoginPreservesPriorSession(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	first, err := f.manager.Login(ctx, "s-1", ports.LoginInput{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)
	require.True(t, first.Authenticated)

	f.verifier.LoginFunc = func(context.Context, ports.LoginInput) (ports.LoginResult, error) {
		return ports.LoginResult{}, apperrors.InvalidCredentials()
	}
	_, err = f.manager.Login(ctx, "s-1", ports.LoginInput{Email: "a@example.com", Password: "wrong"})
	require.Error(t, err)

	// The earlier authenticated state is still intact.
	current := f.manager.Snapshot("s-1")
	assert.True(t, current.Authenticated)
	assert.Equal(t, first.Token, current.Token)

	rec, err := f.records.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, rec.Authenticated)
}

func TestSessionManager_LoginValidation(t *testing.T) {
	f := newSessionFixture()

	_, err := f.manager.Login(context.Background(), "", ports.LoginInput{Email: "a@example.com", Password: "pw"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.manager.Login(context.Background(), "s-1", ports.LoginInput{Email: "a@example.com"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, f.verifier.LoginCalls())
}

func TestSessionManager_CheckAuth_NoRecordMeansNoVerifierCall(t *testing.T) {
	f := newSessionFixture()

	sess, err := f.manager.CheckAuth(context.Background(), "fresh")
	require.NoError(t, err)

	assert.True(t, sess.Settled())
	assert.False(t, sess.Authenticated)
	assert.Nil(t, sess.User)
	assert.Equal(t, 0, f.verifier.VerifyCalls())
}

func TestSessionManager_CheckAuth_ValidTokenSettlesAuthenticated(t *testing.T) {
	f := newSessionFixture()
	seedRecord(t, f, "s-1", "tok-1", domainauth.RoleAnalyst)

	sess, err := f.manager.CheckAuth(context.Background(), "s-1")
	require.NoError(t, err)

	assert.True(t, sess.Authenticated)
	require.NotNil(t, sess.User)
	assert.Equal(t, domainauth.RoleAnalyst, sess.User.Role)
	assert.Equal(t, 1, f.verifier.VerifyCalls())

	// Second call returns the cached settled state.
	again, err := f.manager.CheckAuth(context.Background(), "s-1")
	require.NoError(t, err)
	assert.True(t, again.Authenticated)
	assert.Equal(t, 1, f.verifier.VerifyCalls())
}

func TestSessionManager_CheckAuth_InvalidTokenClearsRecord(t *testing.T) {
	f := newSessionFixture()
	seedRecord(t, f, "s-1", "stale", domainauth.RoleManager)
	f.verifier.VerifyFunc = func(context.Context, string) (domainauth.Identity, error) {
		return domainauth.Identity{}, apperrors.InvalidToken(errors.New("expired"))
	}

	sess, err := f.manager.CheckAuth(context.Background(), "s-1")
	require.NoError(t, err)

	assert.False(t, sess.Authenticated)
	assert.True(t, sess.Settled())
	_, err = f.records.Get(context.Background(), "s-1")
	assert.ErrorIs(t, err, ports.ErrRecordNotFound)
}

func TestSessionManager_CheckAuth_UnreachableVerifierFailsClosed(t *testing.T) {
	f := newSessionFixture()
	seedRecord(t, f, "s-1", "tok-1", domainauth.RoleAdmin)
	f.verifier.VerifyFunc = func(context.Context, string) (domainauth.Identity, error) {
		return domainauth.Identity{}, apperrors.VerifierUnreachable(errors.New("connection refused"))
	}

	sess, err := f.manager.CheckAuth(context.Background(), "s-1")
	require.NoError(t, err)

	assert.False(t, sess.Authenticated)
	assert.Nil(t, sess.User)
}

func TestSessionManager_CheckAuth_CoalescesConcurrentCalls(t *testing.T) {
	f := newSessionFixture()
	seedRecord(t, f, "s-1", "tok-1", domainauth.RoleAnalyst)

	release := make(chan struct{})
	f.verifier.VerifyFunc = func(context.Context, string) (domainauth.Identity, error) {
		<-release
		return domainauth.Identity{UserID: "u-1", Email: "a@example.com", Roles: []string{"analyst"}}, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]domainauth.Session, callers)
	started := make(chan struct{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started <- struct{}{}
			sess, err := f.manager.CheckAuth(context.Background(), "s-1")
			assert.NoError(t, err)
			results[i] = sess
		}(i)
	}
	for i := 0; i < callers; i++ {
		<-started
	}
	close(release)
	wg.Wait()

	// Every caller observed the same settled state from one round trip.
	assert.Equal(t, 1, f.verifier.VerifyCalls())
	for _, sess := range results {
		assert.True(t, sess.Authenticated)
		assert.Equal(t, "tok-1", sess.Token)
	}
}

func TestSessionManager_Snapshot_UntrackedReadsAsLoading(t *testing.T) {
	f := newSessionFixture()

	sess := f.manager.Snapshot("never-seen")
	assert.True(t, sess.Loading)
	assert.False(t, sess.Authenticated)
}

func TestSessionManager_Logout_ClearsSynchronously(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	_, err := f.manager.Login(ctx, "s-1", ports.LoginInput{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	sess := f.manager.Logout(ctx, "s-1")
	assert.False(t, sess.Authenticated)
	assert.True(t, sess.Settled())

	// Record is gone before Logout returns; a fresh bootstrap settles
	// unauthenticated without any verifier traffic.
	assert.Equal(t, 0, f.records.Len())
	f.manager.Forget("s-1")
	after, err := f.manager.CheckAuth(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, after.Authenticated)
	assert.Equal(t, 0, f.verifier.VerifyCalls())

	// Backend revocation runs detached; the local clear never waited on it.
	assert.Eventually(t, func() bool {
		return f.verifier.LogoutCalls() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSessionManager_Logout_DuringInflightVerifyStaysLoggedOut(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()
	seedRecord(t, f, "s-1", "tok-old", domainauth.RoleAnalyst)

	verifyStarted := make(chan struct{})
	release := make(chan struct{})
	f.verifier.VerifyFunc = func(context.Context, string) (domainauth.Identity, error) {
		close(verifyStarted)
		<-release
		return domainauth.Identity{UserID: "u-1", Email: "a@example.com", Roles: []string{"analyst"}}, nil
	}

	done := make(chan domainauth.Session, 1)
	go func() {
		sess, err := f.manager.CheckAuth(ctx, "s-1")
		assert.NoError(t, err)
		done <- sess
	}()

	<-verifyStarted
	out := f.manager.Logout(ctx, "s-1")
	require.False(t, out.Authenticated)
	close(release)
	settled := <-done

	// The verification that was already running when Logout hit must not
	// win: neither the caller's result, the in-memory state, nor the
	// durable record may carry the old token.
	assert.False(t, settled.Authenticated)
	after := f.manager.Snapshot("s-1")
	assert.False(t, after.Authenticated)
	assert.True(t, after.Settled())
	assert.Empty(t, after.Token)
	assert.Equal(t, 0, f.records.Len())
}

func TestSessionManager_Logout_DuringInflightRefreshStaysLoggedOut(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()
	_, err := f.manager.Login(ctx, "s-1", ports.LoginInput{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	refreshStarted := make(chan struct{})
	release := make(chan struct{})
	f.verifier.RefreshFunc = func(context.Context, string) (string, error) {
		close(refreshStarted)
		<-release
		return "tok-rotated", nil
	}

	done := make(chan domainauth.Session, 1)
	go func() {
		sess, err := f.manager.Refresh(ctx, "s-1")
		assert.NoError(t, err)
		done <- sess
	}()

	<-refreshStarted
	out := f.manager.Logout(ctx, "s-1")
	require.False(t, out.Authenticated)
	close(release)
	settled := <-done

	assert.False(t, settled.Authenticated)
	after := f.manager.Snapshot("s-1")
	assert.False(t, after.Authenticated)
	assert.Empty(t, after.Token)
	assert.Equal(t, 0, f.records.Len())
}

func TestSessionManager_CheckAuth_SurvivesFirstCallerDisconnect(t *testing.T) {
	f := newSessionFixture()
	seedRecord(t, f, "s-1", "tok-1", domainauth.RoleAnalyst)

	verifyStarted := make(chan struct{})
	release := make(chan struct{})
	f.verifier.VerifyFunc = func(ctx context.Context, _ string) (domainauth.Identity, error) {
		close(verifyStarted)
		<-release
		if err := ctx.Err(); err != nil {
			return domainauth.Identity{}, apperrors.VerifierUnreachable(err)
		}
		return domainauth.Identity{UserID: "u-1", Email: "a@example.com", Roles: []string{"analyst"}}, nil
	}

	callerCtx, cancel := context.WithCancel(context.Background())
	done := make(chan domainauth.Session, 1)
	go func() {
		sess, err := f.manager.CheckAuth(callerCtx, "s-1")
		assert.NoError(t, err)
		done <- sess
	}()

	// The first caller disconnecting mid-verification must not cancel the
	// shared round trip and sign the session out for everyone else.
	<-verifyStarted
	cancel()
	close(release)
	sess := <-done

	assert.True(t, sess.Authenticated)
	assert.Equal(t, "tok-1", sess.Token)

	rec, err := f.records.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.True(t, rec.Authenticated)
}

func TestSessionManager_Logout_BackendFailureStillClears(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()
	_, err := f.manager.Login(ctx, "s-1", ports.LoginInput{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	f.verifier.LogoutFunc = func(context.Context, string) error {
		return apperrors.VerifierUnreachable(errors.New("down"))
	}

	sess := f.manager.Logout(ctx, "s-1")
	assert.False(t, sess.Authenticated)
	assert.Equal(t, 0, f.records.Len())
}

func TestSessionManager_Refresh_RotatesTokenKeepsUser(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	first, err := f.manager.Login(ctx, "s-1", ports.LoginInput{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	f.verifier.RefreshFunc = func(_ context.Context, token string) (string, error) {
		assert.Equal(t, first.Token, token)
		return "tok-rotated", nil
	}

	sess, err := f.manager.Refresh(ctx, "s-1")
	require.NoError(t, err)

	assert.True(t, sess.Authenticated)
	assert.Equal(t, "tok-rotated", sess.Token)
	require.NotNil(t, sess.User)
	assert.Equal(t, first.User.ID, sess.User.ID)
	assert.Equal(t, first.User.Role, sess.User.Role)

	rec, err := f.records.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-rotated", rec.Token)
}

func TestSessionManager_Refresh_RejectedSettlesUnauthenticated(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()
	_, err := f.manager.Login(ctx, "s-1", ports.LoginInput{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	f.verifier.RefreshFunc = func(context.Context, string) (string, error) {
		return "", apperrors.InvalidToken(errors.New("revoked"))
	}

	sess, err := f.manager.Refresh(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, sess.Authenticated)
	assert.Equal(t, 0, f.records.Len())
}

func TestSessionManager_Refresh_UnauthenticatedIsNoOp(t *testing.T) {
	f := newSessionFixture()

	sess, err := f.manager.Refresh(context.Background(), "never-logged-in")
	require.NoError(t, err)
	assert.False(t, sess.Authenticated)
	assert.Equal(t, 0, f.verifier.RefreshCalls())
}

func TestSessionManager_PersistFailureDoesNotBlockLogin(t *testing.T) {
	f := newSessionFixture()
	f.records.FailSave = errors.New("redis down")

	sess, err := f.manager.Login(context.Background(), "s-1", ports.LoginInput{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
}

func TestSessionManager_NewSessionIDIsUnique(t *testing.T) {
	f := newSessionFixture()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := f.manager.NewSessionID()
		require.NotEmpty(t, id)
		require.False(t, seen[id])
		seen[id] = true
	}
}
