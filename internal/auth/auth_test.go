package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	a := New("secret", "league")
	token, err := a.Issue("user-1", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "league", claims.Issuer)

	_, err = New("other", "league").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	_, err = New("secret", "someone-else").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong issuer")

	expired := New("secret", "league")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("user-1", RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = a.Verify(old)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	_, err = a.Issue("", RoleAdmin, time.Hour)
	assert.Error(t, err)
}

func TestRequireAdmin(t *testing.T) {
	a := New("secret", "league")
	admin, err := a.Issue("user-1", RoleAdmin, time.Hour)
	require.NoError(t, err)
	viewer, err := a.Issue("user-2", "viewer", time.Hour)
	require.NoError(t, err)

	handler := a.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(claims.Subject))
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"viewer", "Bearer " + viewer, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/teams", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user-1", rr.Body.String())
			}
		})
	}
}
