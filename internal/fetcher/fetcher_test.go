package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/souktrack/souktrack/internal/fetcher"
	"github.com/souktrack/souktrack/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userAgent = "test/0.0.0"
	response  = `<html><body><h1>hello</h1></body></html>`
)

func TestUnitFetch(t *testing.T) {
	wantHeaders := map[string]string{
		"User-Agent": userAgent,
		"Accept":     "text/html,application/json",
	}

	tests := map[string]struct {
		serverHandler   http.Handler
		wantBody        string
		wantContentType string
		wantErr         error
		wantStatusErr   int
	}{
		"ok html": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				validateHeaders(t, req.Header, wantHeaders)
				wrt.Header().Add("Content-Type", "text/html; charset=utf-8")
				wrt.WriteHeader(http.StatusOK)
				wrt.Write([]byte(response))
			}),
			wantBody:        response,
			wantContentType: "text/html; charset=utf-8",
		},
		"ok json": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				wrt.Header().Add("Content-Type", "application/json")
				wrt.WriteHeader(http.StatusOK)
				wrt.Write([]byte(`{"name":"hello"}`))
			}),
			wantBody:        `{"name":"hello"}`,
			wantContentType: "application/json",
		},
		"not found error": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				wrt.WriteHeader(http.StatusNotFound)
			}),
			wantStatusErr: http.StatusNotFound,
		},
		"server error": {
			serverHandler: http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
				wrt.WriteHeader(http.StatusInternalServerError)
			}),
			wantStatusErr: http.StatusInternalServerError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(tt.serverHandler)
			t.Cleanup(func() {
				srv.Close()
			})

			fet := fetcher.NewFetcher(srv.Client(), userAgent)
			page, err := fet.Fetch(context.TODO(), srv.URL+"/product")

			if tt.wantStatusErr != 0 {
				var statusErr *platform.StatusError
				require.ErrorAs(t, err, &statusErr, "should return status error")
				assert.Equal(t, tt.wantStatusErr, statusErr.Status, "should carry response status")
				return
			}

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")
			require.NotNil(t, page, "page shouldn't be nil")
			assert.Equal(t, tt.wantBody, string(page.Body), "should return correct body")
			assert.Equal(t, tt.wantContentType, page.ContentType, "should return correct content type")
		})
	}
}

func TestUnitFetchInvalidURL(t *testing.T) {
	tests := map[string]string{
		"unsupported scheme": "ftp://factory-moon.com/p/5",
		"missing host":       "https:///p/5",
		"not a url":          "://",
		"blank":              "",
	}

	for name, rawURL := range tests {
		t.Run(name, func(t *testing.T) {
			fet := fetcher.NewFetcher(&http.Client{Transport: failingTransport{}}, userAgent)
			page, err := fet.Fetch(context.TODO(), rawURL)

			require.ErrorIs(t, err, platform.ErrInvalidURL, "should return invalid url error")
			assert.Nil(t, page, "shouldn't return any page")
		})
	}
}

func TestUnitFetchRetriesTransportErrorOnce(t *testing.T) {
	attempts := atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		if attempts.Add(1) == 1 {
			// kill the first connection to simulate a reset
			hj, ok := wrt.(http.Hijacker)
			require.True(t, ok, "test server should support hijacking")
			conn, _, err := hj.Hijack()
			require.NoError(t, err, "can't hijack connection")
			conn.Close()
			return
		}
		wrt.WriteHeader(http.StatusOK)
		wrt.Write([]byte(response))
	}))
	t.Cleanup(func() {
		srv.Close()
	})

	fet := fetcher.NewFetcher(srv.Client(), userAgent)
	page, err := fet.Fetch(context.TODO(), srv.URL+"/product")

	require.NoError(t, err, "shouldn't return any error after retry")
	assert.Equal(t, response, string(page.Body), "should return body from second attempt")
	assert.Equal(t, int32(2), attempts.Load(), "should retry exactly once")
}

func TestUnitFetchUnreachable(t *testing.T) {
	calls := atomic.Int32{}
	client := &http.Client{
		Transport: countingFailingTransport{calls: &calls},
		Timeout:   time.Second,
	}

	fet := fetcher.NewFetcher(client, userAgent)
	page, err := fet.Fetch(context.TODO(), "http://unreachable.invalid/product")

	require.ErrorIs(t, err, platform.ErrUnreachable, "should return unreachable error")
	assert.Nil(t, page, "shouldn't return any page")
	assert.Equal(t, int32(2), calls.Load(), "should give up after one retry")
}

func validateHeaders(t *testing.T, headers http.Header, expected map[string]string) {
	t.Helper()

	for header, expectedValue := range expected {
		assert.Equalf(t, expectedValue, headers.Get(header), "request should contain correct value for header %s", header)
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("transport shouldn't be used")
}

type countingFailingTransport struct {
	calls *atomic.Int32
}

func (t countingFailingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls.Add(1)
	return nil, errors.New("connection refused")
}
