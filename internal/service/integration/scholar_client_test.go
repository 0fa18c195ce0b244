package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docudetect/docu-detect/internal/config"
)

func newTestClient(baseURL string) *ScholarClient {
	return NewScholarClient(config.ScholarConfig{
		BaseURL: baseURL,
		Fields:  "title,year,authors",
		Timeout: 2 * time.Second,
	}, zerolog.Nop())
}

func TestHasMatchRequestParams(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"total":1,"data":[{"title":"Deep Learning Basics","year":2020}]}`)
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	found, err := client.HasMatch(context.Background(), "Deep Learning Basics")
	require.NoError(t, err)
	assert.True(t, found)

	q := captured.URL.Query()
	assert.Equal(t, "Deep Learning Basics", q.Get("query"))
	assert.Equal(t, "1", q.Get("limit"))
	assert.Equal(t, "title,year,authors", q.Get("fields"))
}

func TestHasMatchEmptyData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total":0,"data":[]}`)
	}))
	defer ts.Close()

	found, err := newTestClient(ts.URL).HasMatch(context.Background(), "Nonexistent Paper")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHasMatchMissingDataField(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total":0}`)
	}))
	defer ts.Close()

	found, err := newTestClient(ts.URL).HasMatch(context.Background(), "Whatever")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHasMatchNon200Status(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).HasMatch(context.Background(), "Anything")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestHasMatchMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).HasMatch(context.Background(), "Anything")
	assert.Error(t, err)
}

func TestHasMatchUnreachableServer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	_, err := newTestClient(ts.URL).HasMatch(context.Background(), "Anything")
	assert.Error(t, err)
}
