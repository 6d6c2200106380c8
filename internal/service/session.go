package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
	apperrors "github.com/target/fraudwatch-ui-api/internal/errors"
	"github.com/target/fraudwatch-ui-api/internal/observability/statsd"
	"github.com/target/fraudwatch-ui-api/internal/ports"
)

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Verifier ports.CredentialVerifier
	Records  ports.SessionRecordStore
	Roles    ports.RoleMapper
	Logger   *slog.Logger
	// Metrics is optional; a nil sink drops auth counters.
	Metrics statsd.Sink
}

// SessionManager owns the authentication state of every active client
// session. Each session ID tracks one state machine:
//
//	absent (uninitialized) -> loading -> authenticated | unauthenticated
//
// In-memory state is authoritative while the process runs; the record
// store is the durable mirror that survives restarts. Loading is never
// persisted, so every restart re-verifies through CheckAuth.
//
// All failure modes resolve to the least-privileged outcome: a rejected
// token, an unreachable verifier, or a corrupt record all settle the
// session as unauthenticated.
type SessionManager struct {
	verifier ports.CredentialVerifier
	records  ports.SessionRecordStore
	roles    ports.RoleMapper
	logger   *slog.Logger
	metrics  statsd.Sink

	mu     sync.Mutex
	states map[string]domainauth.Session
	// gens counts explicit transitions (login, logout, forget) per
	// session. Verifications snapshot the generation before their
	// round trip and discard the result if it moved: a logout that
	// lands mid-verify must win over the in-flight result.
	gens map[string]uint64

	// group coalesces concurrent CheckAuth/Refresh calls per session ID so
	// N callers during bootstrap cost one verifier round trip.
	group singleflight.Group
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		verifier: opts.Verifier,
		records:  opts.Records,
		roles:    opts.Roles,
		logger:   logger,
		metrics:  opts.Metrics,
		states:   make(map[string]domainauth.Session),
		gens:     make(map[string]uint64),
	}
}

// NewSessionID mints an ID for a fresh client session.
func (s *SessionManager) NewSessionID() string {
	return uuid.NewString()
}

// Snapshot returns the current in-memory state without touching the
// verifier or the record store. An untracked session reads as loading:
// callers must treat it as "not yet known", never as unauthenticated.
func (s *SessionManager) Snapshot(sessionID string) domainauth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.states[sessionID]; ok {
		return sess
	}
	return domainauth.Session{ID: sessionID, Loading: true}
}

// Login checks credentials against the verifier and, on success, swaps
// the session to authenticated in one step. A failed attempt leaves any
// prior state for this session ID untouched.
func (s *SessionManager) Login(ctx context.Context, sessionID string, in ports.LoginInput) (domainauth.Session, error) {
	if sessionID == "" {
		return domainauth.Session{}, apperrors.Validation("session ID is required")
	}
	if in.Email == "" || in.Password == "" {
		return domainauth.Session{}, apperrors.Validation("email and password are required")
	}

	result, err := s.verifier.Login(ctx, in)
	if err != nil {
		s.count("auth.login", "outcome", "failure")
		if apperrors.IsInvalidCredentials(err) {
			return domainauth.Session{}, err
		}
		if apperrors.IsVerifierUnreachable(err) {
			// An unreachable backend rejects the attempt; it never grants.
			s.logger.Warn("login verifier unreachable", "error", err)
			return domainauth.Session{}, err
		}
		return domainauth.Session{}, fmt.Errorf("verifier login: %w", err)
	}

	sess := s.settleAuthenticated(ctx, sessionID, result.Identity, result.Token)
	s.count("auth.login", "outcome", "success")
	s.logger.Info("login succeeded",
		"session_id", sessionID,
		"user_id", sess.User.ID,
		"role", string(sess.User.Role),
	)
	return sess, nil
}

// CheckAuth settles the session state, verifying the persisted token on
// first contact. Once a session has settled, subsequent calls return the
// cached state without another verifier round trip; concurrent calls for
// the same session ID coalesce into one verification.
func (s *SessionManager) CheckAuth(ctx context.Context, sessionID string) (domainauth.Session, error) {
	if sessionID == "" {
		return domainauth.Session{}, apperrors.Validation("session ID is required")
	}

	s.mu.Lock()
	if sess, ok := s.states[sessionID]; ok && sess.Settled() {
		s.mu.Unlock()
		return sess, nil
	}
	// Mark loading before releasing the lock so Snapshot callers see an
	// in-flight verification rather than an unauthenticated flash.
	s.states[sessionID] = domainauth.Session{ID: sessionID, Loading: true}
	s.mu.Unlock()

	v, err, _ := s.group.Do("check:"+sessionID, func() (any, error) {
		// The result is shared by every coalesced caller, so it must not
		// die with whichever request happened to arrive first.
		return s.hydrateAndVerify(context.WithoutCancel(ctx), sessionID), nil
	})
	if err != nil {
		// The closure never returns an error; keep the compiler honest.
		return domainauth.Session{}, err
	}
	return v.(domainauth.Session), nil
}

// hydrateAndVerify loads the durable record and settles the state machine.
// Runs inside singleflight; exactly one execution per session at a time.
// Every settle is generation-checked so an explicit transition during the
// verifier round trip invalidates this result.
func (s *SessionManager) hydrateAndVerify(ctx context.Context, sessionID string) domainauth.Session {
	startGen := s.generation(sessionID)

	rec, err := s.records.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ports.ErrRecordNotFound) {
			s.logger.Warn("load session record", "session_id", sessionID, "error", err)
		}
		sess, _ := s.settleAt(ctx, sessionID, startGen, domainauth.Session{ID: sessionID}, false)
		return sess
	}

	// A record without a token has nothing to verify; zero verifier calls.
	if !rec.Authenticated || rec.Token == "" || rec.User == nil {
		sess, _ := s.settleAt(ctx, sessionID, startGen, domainauth.Session{ID: sessionID}, false)
		return sess
	}

	identity, err := s.verifier.VerifyToken(ctx, rec.Token)
	if err != nil {
		if apperrors.IsAuthRejection(err) {
			s.count("auth.verify", "outcome", "rejected")
			s.logger.Info("session token rejected", "session_id", sessionID, "error", err)
			sess, fresh := s.settleAt(ctx, sessionID, startGen, domainauth.Session{ID: sessionID}, false)
			if fresh {
				s.deleteRecord(ctx, sessionID)
			}
			return sess
		}
		// Unclassified failures still fail closed.
		s.count("auth.verify", "outcome", "error")
		s.logger.Warn("verify session token", "session_id", sessionID, "error", err)
		sess, _ := s.settleAt(ctx, sessionID, startGen, domainauth.Session{ID: sessionID}, false)
		return sess
	}

	s.count("auth.verify", "outcome", "valid")
	sess, fresh := s.settleAt(ctx, sessionID, startGen, s.buildAuthenticated(sessionID, identity, rec.Token), true)
	if !fresh {
		s.logger.Info("stale session verification discarded", "session_id", sessionID)
	}
	return sess
}

// Refresh exchanges the session token for a fresh one. A rejected
// refresh settles the session as unauthenticated; callers then route
// the user back through login. Concurrent calls coalesce.
func (s *SessionManager) Refresh(ctx context.Context, sessionID string) (domainauth.Session, error) {
	if sessionID == "" {
		return domainauth.Session{}, apperrors.Validation("session ID is required")
	}

	v, _, _ := s.group.Do("refresh:"+sessionID, func() (any, error) {
		return s.refreshOnce(context.WithoutCancel(ctx), sessionID), nil
	})
	return v.(domainauth.Session), nil
}

func (s *SessionManager) refreshOnce(ctx context.Context, sessionID string) domainauth.Session {
	current, err := s.CheckAuth(ctx, sessionID)
	if err != nil || !current.Authenticated {
		return current
	}
	startGen := s.generation(sessionID)

	rotated, err := s.verifier.RefreshToken(ctx, current.Token)
	if err != nil {
		if apperrors.IsAuthRejection(err) {
			s.count("auth.refresh", "outcome", "rejected")
			s.logger.Info("token refresh rejected", "session_id", sessionID, "error", err)
			sess, fresh := s.settleAt(ctx, sessionID, startGen, domainauth.Session{ID: sessionID}, false)
			if fresh {
				s.deleteRecord(ctx, sessionID)
			}
			return sess
		}
		s.count("auth.refresh", "outcome", "error")
		s.logger.Warn("token refresh", "session_id", sessionID, "error", err)
		sess, _ := s.settleAt(ctx, sessionID, startGen, domainauth.Session{ID: sessionID}, false)
		return sess
	}

	s.count("auth.refresh", "outcome", "success")

	// The verified user carries over unchanged; only the token rotates.
	user := *current.User
	sess, fresh := s.settleAt(ctx, sessionID, startGen, domainauth.Session{
		ID:            sessionID,
		User:          &user,
		Token:         rotated,
		Authenticated: true,
	}, true)
	if !fresh {
		s.logger.Info("stale token refresh discarded", "session_id", sessionID)
	}
	return sess
}

// Logout clears the session synchronously: in-memory state and durable
// record are gone before this returns, so the very next CheckAuth for
// this ID settles unauthenticated. Backend revocation is best effort and
// runs detached; local completion never waits on it.
func (s *SessionManager) Logout(ctx context.Context, sessionID string) domainauth.Session {
	s.mu.Lock()
	prior, had := s.states[sessionID]
	s.mu.Unlock()

	// Detach future coalesced joiners from any in-flight verification.
	// The generation bump inside settleUnauthenticated makes the
	// verification already running discard its own result, so a stale
	// success cannot resurrect the session after this clear.
	s.group.Forget("check:" + sessionID)
	s.group.Forget("refresh:" + sessionID)

	sess := s.settleUnauthenticated(sessionID)
	s.deleteRecord(ctx, sessionID)
	s.count("auth.logout", "outcome", "success")

	if had && prior.Token != "" {
		revokeCtx := context.WithoutCancel(ctx)
		go func() {
			if err := s.verifier.Logout(revokeCtx, prior.Token); err != nil {
				s.logger.Warn("backend logout", "session_id", sessionID, "error", err)
			}
		}()
	}
	return sess
}

// Forget drops the in-memory state for a session without touching the
// durable record. The next CheckAuth re-hydrates and re-verifies.
func (s *SessionManager) Forget(sessionID string) {
	s.mu.Lock()
	s.gens[sessionID]++
	delete(s.states, sessionID)
	s.mu.Unlock()
}

// buildAuthenticated maps the identity to a canonical role and shapes the
// authenticated session. It does not touch the states map.
func (s *SessionManager) buildAuthenticated(
	sessionID string,
	identity domainauth.Identity,
	token string,
) domainauth.Session {
	role := domainauth.RoleGuest
	if s.roles != nil {
		role = s.roles.Map(identity.Roles)
	}

	return domainauth.Session{
		ID: sessionID,
		User: &domainauth.User{
			ID:    identity.UserID,
			Email: identity.Email,
			Name:  identity.Name,
			Role:  role,
		},
		Token:         token,
		Authenticated: true,
	}
}

// settleAuthenticated stores the authenticated state unconditionally and
// mirrors it to the record store. Used by Login, which is an explicit
// transition and always wins. The swap into the states map is a single
// assignment: observers see either the old state or the complete new one,
// never a half-built session.
func (s *SessionManager) settleAuthenticated(
	ctx context.Context,
	sessionID string,
	identity domainauth.Identity,
	token string,
) domainauth.Session {
	sess := s.buildAuthenticated(sessionID, identity, token)

	s.mu.Lock()
	s.gens[sessionID]++
	s.states[sessionID] = sess
	s.mu.Unlock()

	s.persist(ctx, sessionID, sess)
	return sess
}

func (s *SessionManager) settleUnauthenticated(sessionID string) domainauth.Session {
	sess := domainauth.Session{ID: sessionID}
	s.mu.Lock()
	s.gens[sessionID]++
	s.states[sessionID] = sess
	s.mu.Unlock()
	return sess
}

// generation reads the session's transition counter. A verification that
// snapshots the generation before its round trip settles through settleAt,
// which drops the result if the counter moved in the meantime.
func (s *SessionManager) generation(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[sessionID]
}

// settleAt stores sess only when no explicit transition happened since
// startGen was read. A stale result is dropped and the current state
// returned instead, so a logout or fresh login always outlives an older
// in-flight verification. Reports whether sess was actually stored.
func (s *SessionManager) settleAt(
	ctx context.Context,
	sessionID string,
	startGen uint64,
	sess domainauth.Session,
	mirror bool,
) (domainauth.Session, bool) {
	s.mu.Lock()
	if s.gens[sessionID] != startGen {
		cur, ok := s.states[sessionID]
		s.mu.Unlock()
		if !ok {
			cur = domainauth.Session{ID: sessionID, Loading: true}
		}
		return cur, false
	}
	s.gens[sessionID]++
	s.states[sessionID] = sess
	s.mu.Unlock()

	if mirror {
		s.persist(ctx, sessionID, sess)
	}
	return sess, true
}

// persist mirrors the settled state to the record store. A write failure
// only costs durability across restarts, so it logs rather than failing
// the auth flow.
func (s *SessionManager) persist(ctx context.Context, sessionID string, sess domainauth.Session) {
	rec := domainauth.Record{
		User:          sess.User,
		Token:         sess.Token,
		Authenticated: sess.Authenticated,
	}
	if err := s.records.Save(ctx, sessionID, rec); err != nil {
		s.logger.Warn("persist session record", "session_id", sessionID, "error", err)
	}
}

func (s *SessionManager) deleteRecord(ctx context.Context, sessionID string) {
	if err := s.records.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("delete session record", "session_id", sessionID, "error", err)
	}
}

func (s *SessionManager) count(name, tagKey, tagValue string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Count(name, 1, map[string]string{tagKey: tagValue})
}
