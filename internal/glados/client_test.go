package glados

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestClient(mirrors ...string) *Client {
	return New(mirrors, 2*time.Second, 1000, newNoopLogger())
}

func TestDo_FirstSuccessfulMirrorWins(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok from second"}`))
	}))
	defer good.Close()

	var thirdCalled bool
	third := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		thirdCalled = true
		_, _ = w.Write([]byte(`{"message":"should not be used"}`))
	}))
	defer third.Close()

	client := newTestClient(bad.URL, good.URL, third.URL)

	var resp struct {
		Message string `json:"message"`
	}
	err := client.Do(context.Background(), http.MethodGet, "/api/user/status", "koa:sess=x", nil, &resp)

	require.NoError(t, err)
	assert.Equal(t, "ok from second", resp.Message)
	assert.False(t, thirdCalled, "third mirror must not be called after a success")
}

func TestDo_AllMirrorsFail(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	client := newTestClient(bad.URL, "http://127.0.0.1:1", bad.URL)

	err := client.Do(context.Background(), http.MethodGet, "/api/user/points", "koa:sess=x", nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_MalformedBodyTriesNextMirror(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message": broken`))
	}))
	defer broken.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"recovered"}`))
	}))
	defer good.Close()

	client := newTestClient(broken.URL, good.URL)

	var resp struct {
		Message string `json:"message"`
	}
	err := client.Do(context.Background(), http.MethodGet, "/api/user/status", "", nil, &resp)

	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Message)
}

func TestDo_SendsHeadersCookieAndBody(t *testing.T) {
	var gotReq *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	body := map[string]string{"token": "glados.cloud"}
	err := client.Do(context.Background(), http.MethodPost, "/api/user/checkin", "koa:sess=abc", body, nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, "/api/user/checkin", gotReq.URL.Path)
	assert.Equal(t, "koa:sess=abc", gotReq.Header.Get("Cookie"))
	assert.Equal(t, "application/json;charset=UTF-8", gotReq.Header.Get("Content-Type"))
	assert.Contains(t, gotReq.Header.Get("User-Agent"), "Mozilla/5.0")

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, "glados.cloud", decoded["token"])
}

func TestDo_RemembersLastGoodMirror(t *testing.T) {
	var firstHits, secondHits int

	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		firstHits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer first.Close()

	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		secondHits++
		_, _ = w.Write([]byte(`{}`))
	}))
	defer second.Close()

	client := newTestClient(first.URL, second.URL)

	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/a", "", nil, nil))
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/b", "", nil, nil))

	// Первый вызов перебирает оба зеркала, второй начинает сразу со второго.
	assert.Equal(t, 1, firstHits)
	assert.Equal(t, 2, secondHits)
}
