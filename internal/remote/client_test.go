package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/flows/tsuyobaha.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"title":"つよバハ","flow":[{"hp":"100"},{"hp":"50"}]}`))
		case "/flows/broken.json":
			_, _ = w.Write([]byte(`{"title":`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)

	f, err := c.Fetch(context.Background(), "tsuyobaha")
	require.NoError(t, err)
	assert.Equal(t, "つよバハ", f.Title)
	assert.Len(t, f.Flow, 2)

	_, err = c.Fetch(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	_, err = c.Fetch(context.Background(), "broken")
	require.Error(t, err)

	_, err = c.Fetch(context.Background(), " ")
	require.Error(t, err)
}

func TestFetchHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, time.Second).Fetch(ctx, "any")
	assert.Error(t, err)
}

func TestFlowURLEscapes(t *testing.T) {
	c := NewClient("https://example.com/base/", 0)
	assert.Equal(t, "https://example.com/base/flows/a%20b.json", c.FlowURL("a b"))
}
