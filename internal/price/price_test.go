package price

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUSDCachesWithinTTL(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"gridcoin-research":{"usd":0.0123}}`)
	}))
	defer srv.Close()

	f := New(srv.URL, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		usd, err := f.USD(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.0123, usd)
	}
	assert.Equal(t, int32(1), calls.Load(), "quotes inside the TTL come from cache")
}

func TestTagDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := New(srv.URL, time.Minute)
	assert.Equal(t, "", f.Tag(context.Background(), 100))
}

func TestTagFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"gridcoin-research":{"usd":0.01}}`)
	}))
	defer srv.Close()

	f := New(srv.URL, time.Minute)
	assert.Equal(t, "(~$1.0000)", f.Tag(context.Background(), 100))
}

func TestUSDRejectsMissingQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"gridcoin-research":{"eur":0.01}}`)
	}))
	defer srv.Close()

	f := New(srv.URL, time.Minute)
	_, err := f.USD(context.Background())
	assert.Error(t, err)
}
