package httpauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/target/fraudwatch-ui-api/internal/errors"
	"github.com/target/fraudwatch-ui-api/internal/ports"
)

func decodeDoc(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestMapLoginResponse_FlatShape(t *testing.T) {
	doc := decodeDoc(t, `{
		"user": {"id":"u-1","email":"a@example.com","name":"Ana","roles":["analyst"]},
		"token": "tok-1"
	}`)

	mapped, err := mapLoginResponse(doc)
	require.NoError(t, err)
	assert.Equal(t, ShapeRecognized, mapped.Match)
	assert.Equal(t, "flat", mapped.Shape)
	assert.Equal(t, "u-1", mapped.Identity.UserID)
	assert.Equal(t, []string{"analyst"}, mapped.Identity.Roles)
	assert.Equal(t, "tok-1", mapped.Token)
}

func TestMapLoginResponse_DataWrappedShape(t *testing.T) {
	doc := decodeDoc(t, `{
		"data": {
			"user": {"_id":"u-2","email":"b@example.com","role":"manager"},
			"token": "tok-2"
		}
	}`)

	mapped, err := mapLoginResponse(doc)
	require.NoError(t, err)
	assert.Equal(t, ShapeRecognized, mapped.Match)
	assert.Equal(t, "data-wrapped", mapped.Shape)
	assert.Equal(t, "u-2", mapped.Identity.UserID)
	// Singular role field is lifted into the roles slice.
	assert.Equal(t, []string{"manager"}, mapped.Identity.Roles)
}

func TestMapLoginResponse_UnknownShapeIsTaggedDefaulted(t *testing.T) {
	// Top-level user document with a token: works, but tagged so the
	// misadaptation is observable rather than silent.
	doc := decodeDoc(t, `{"id":"u-3","email":"c@example.com","token":"tok-3"}`)

	mapped, err := mapLoginResponse(doc)
	require.NoError(t, err)
	assert.Equal(t, ShapeDefaulted, mapped.Match)
	assert.Equal(t, "tok-3", mapped.Token)
}

func TestMapLoginResponse_Unmappable(t *testing.T) {
	_, err := mapLoginResponse(decodeDoc(t, `{"status":"ok"}`))
	assert.Error(t, err)
}

func TestMapIdentityResponse_VerifyWithoutToken(t *testing.T) {
	doc := decodeDoc(t, `{"user": {"id":"u-4","email":"d@example.com","groups":["fraud-admins"]}}`)

	mapped, err := mapIdentityResponse(doc)
	require.NoError(t, err)
	assert.Equal(t, ShapeRecognized, mapped.Match)
	assert.Empty(t, mapped.Token)
	assert.Equal(t, []string{"fraud-admins"}, mapped.Identity.Roles)
}

func newBackend(t *testing.T, handler http.HandlerFunc) *Verifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	v, err := NewVerifier(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return v
}

func TestVerifier_LoginSuccess(t *testing.T) {
	v := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"user":{"id":"u-1","email":"ana@example.com","roles":["analyst"]},"token":"tok-1"}}`))
	})

	res, err := v.Login(context.Background(), ports.LoginInput{Email: "ana@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, "u-1", res.Identity.UserID)
}

func TestVerifier_LoginRejected(t *testing.T) {
	v := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"bad credentials"}`, http.StatusUnauthorized)
	})

	_, err := v.Login(context.Background(), ports.LoginInput{Email: "x@example.com", Password: "nope"})
	assert.True(t, apperrors.IsInvalidCredentials(err))
}

func TestVerifier_VerifyTokenSendsBearer(t *testing.T) {
	v := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/verify", r.URL.Path)
		assert.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"user":{"id":"u-9","email":"e@example.com"}}`))
	})

	identity, err := v.VerifyToken(context.Background(), "tok-9")
	require.NoError(t, err)
	assert.Equal(t, "u-9", identity.UserID)
}

func TestVerifier_VerifyTokenRejected(t *testing.T) {
	v := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})

	_, err := v.VerifyToken(context.Background(), "stale")
	assert.True(t, apperrors.IsInvalidToken(err))
}

func TestVerifier_BackendDownIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	v, err := NewVerifier(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	srv.Close() // connection refused from here on

	_, err = v.VerifyToken(context.Background(), "tok")
	assert.True(t, apperrors.IsVerifierUnreachable(err))

	_, err = v.Login(context.Background(), ports.LoginInput{Email: "a@example.com", Password: "pw"})
	assert.True(t, apperrors.IsVerifierUnreachable(err))
}

func TestVerifier_ServerErrorFailsClosed(t *testing.T) {
	v := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := v.VerifyToken(context.Background(), "tok")
	assert.True(t, apperrors.IsVerifierUnreachable(err))
}

func TestVerifier_RefreshRotates(t *testing.T) {
	v := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		_, _ = w.Write([]byte(`{"user":{"id":"u-1","email":"a@example.com"},"token":"tok-fresh"}`))
	})

	fresh, err := v.RefreshToken(context.Background(), "tok-old")
	require.NoError(t, err)
	assert.Equal(t, "tok-fresh", fresh)
}

func TestVerifier_LogoutSwallowsRejection(t *testing.T) {
	v := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "already gone", http.StatusUnauthorized)
	})

	assert.NoError(t, v.Logout(context.Background(), "tok"))
}
