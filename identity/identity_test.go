package identity_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/identity"
)

const secret = "test-secret"

var alice = identity.Identity{ID: "alice", Name: "Alice", AvatarURL: "https://example.com/a.png"}

func newVerifier(t *testing.T) *identity.Verifier {
	t.Helper()
	v, err := identity.NewVerifier(secret)
	require.NoError(t, err)
	return v
}

func quietLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

// =============================================================================
// VERIFIER
// =============================================================================

func TestVerifier_IssueThenVerify(t *testing.T) {
	v := newVerifier(t)

	token, err := v.Issue(alice, time.Hour)
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestVerifier_RejectsBadTokens(t *testing.T) {
	v := newVerifier(t)
	other, err := identity.NewVerifier("another-secret")
	require.NoError(t, err)

	foreign, err := other.Issue(alice, time.Hour)
	require.NoError(t, err)
	expired, err := v.Issue(alice, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", foreign},
		{"expired", expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, generic.ErrUnauthorized)
		})
	}
}

func TestNewVerifier_EmptySecret(t *testing.T) {
	_, err := identity.NewVerifier("")
	assert.ErrorIs(t, err, generic.ErrValidation)
}

// =============================================================================
// PROVIDER
// =============================================================================

func TestProvider_StartsAnonymous(t *testing.T) {
	p := identity.NewProvider(newVerifier(t), quietLogger())

	assert.False(t, p.State().SignedIn)
	assert.Equal(t, generic.AnonymousUser, p.UserID())
}

func TestProvider_SignInObservedThroughSubscribers(t *testing.T) {
	v := newVerifier(t)
	p := identity.NewProvider(v, quietLogger())
	token, err := v.Issue(alice, time.Hour)
	require.NoError(t, err)

	var (
		mu     sync.Mutex
		states []identity.State
	)
	unsubscribe := p.Subscribe(func(s identity.State) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s)
	})
	defer unsubscribe()

	// WHEN: signing in then out
	p.SignIn(token)
	p.Wait()
	assert.Equal(t, generic.UserID("alice"), p.UserID())

	p.SignOut()
	p.Wait()

	// THEN: both transitions reached the subscriber
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, states, 2)
	assert.True(t, states[0].SignedIn)
	assert.Equal(t, "Alice", states[0].Identity.Name)
	assert.False(t, states[1].SignedIn)
	assert.Equal(t, generic.AnonymousUser, p.UserID())
}

func TestProvider_FailedSignInStaysSignedOut(t *testing.T) {
	p := identity.NewProvider(newVerifier(t), quietLogger())

	p.SignIn("bogus")
	p.Wait()

	state := p.State()
	assert.False(t, state.SignedIn)
	assert.ErrorIs(t, state.Err, generic.ErrUnauthorized)
	assert.Equal(t, generic.AnonymousUser, p.UserID())
}

func TestProvider_NilVerifierRejectsSignIn(t *testing.T) {
	p := identity.NewProvider(nil, quietLogger())

	p.SignIn("anything")
	p.Wait()

	assert.ErrorIs(t, p.State().Err, generic.ErrUnauthorized)
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func whoami() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(identity.UserID(r.Context())))
	})
}

func TestMiddleware(t *testing.T) {
	v := newVerifier(t)
	token, err := v.Issue(alice, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		verifier   *identity.Verifier
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no header is anonymous", v, "", http.StatusOK, "anonymous"},
		{"valid bearer", v, "Bearer " + token, http.StatusOK, "alice"},
		{"invalid bearer", v, "Bearer nope", http.StatusUnauthorized, ""},
		{"wrong scheme", v, "Basic abc", http.StatusUnauthorized, ""},
		{"auth disabled ignores header", nil, "Bearer " + token, http.StatusOK, "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			identity.Middleware(tt.verifier)(whoami()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
