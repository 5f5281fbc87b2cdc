package twitch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveStreamsBatches(t *testing.T) {
	var mu sync.Mutex
	var batches []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/streams", r.URL.Path)
		assert.Equal(t, "client", r.Header.Get("Client-ID"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		logins := r.URL.Query()["user_login"]
		mu.Lock()
		batches = append(batches, len(logins))
		mu.Unlock()

		for _, login := range logins {
			if login == "user7" || login == "user150" {
				fmt.Fprintf(w, `{"data": [{"user_login": %q, "title": "Live now", "viewer_count": 3}]}`, login)
				return
			}
		}
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	c := NewClient("client", "token")
	c.BaseURL = server.URL
	c.httpClient = server.Client()

	logins := make([]string, 0, 150)
	for i := 1; i <= 150; i++ {
		logins = append(logins, fmt.Sprintf("User%d", i))
	}
	live, err := c.LiveStreams(context.Background(), logins)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 50}, batches)
	require.Len(t, live, 2)
	assert.Equal(t, "Live now", live["user7"].Title)
	assert.Equal(t, 3, live["user150"].Viewers)
}

func TestLiveStreamsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "invalid token"}`)
	}))
	defer server.Close()

	c := NewClient("client", "bad")
	c.BaseURL = server.URL
	_, err := c.LiveStreams(context.Background(), []string{"someone"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestLiveStreamsEmpty(t *testing.T) {
	c := NewClient("client", "token")
	c.BaseURL = "http://127.0.0.1:0"
	live, err := c.LiveStreams(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, live)
	assert.True(t, c.Configured())
	assert.False(t, NewClient("", "").Configured())
}
