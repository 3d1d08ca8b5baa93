package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		assert.NotEmpty(t, r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body>hello</body></html>")
	}))
	defer server.Close()

	client := NewClient(nil)
	result, err := client.Get(context.Background(), server.URL+"/page")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, server.URL+"/page", result.FinalURL)
	assert.Contains(t, result.HTML, "hello")
	assert.Contains(t, result.ContentType, "text/html")
}

func TestGet_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "landed")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(nil)
	result, err := client.Get(context.Background(), server.URL+"/start")
	require.NoError(t, err)

	assert.Equal(t, server.URL+"/start", result.URL)
	assert.Equal(t, server.URL+"/final", result.FinalURL)
	assert.Equal(t, "landed", result.HTML)
}

func TestGet_NonSuccessStatusReturnsResultAndError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "gone")
	}))
	defer server.Close()

	client := NewClient(nil)
	result, err := client.Get(context.Background(), server.URL+"/missing")

	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, fetchErr.Message, "404")
}

func TestGet_InvalidURL(t *testing.T) {
	client := NewClient(nil)
	_, err := client.Get(context.Background(), "not-a-url")

	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "invalid URL", fetchErr.Message)
}

func TestGetDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/next">next</a></body></html>`)
	}))
	defer server.Close()

	client := NewClient(nil)
	doc, err := client.GetDocument(context.Background(), server.URL+"/page")
	require.NoError(t, err)

	links := doc.FindAllByTag("a")
	require.Len(t, links, 1)
	assert.Equal(t, server.URL+"/next", doc.ResolveURL("/next"))
}

func TestGetStream(t *testing.T) {
	body := []byte("streamed artifact bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	client := NewClient(nil)
	stream, err := client.GetStream(context.Background(), server.URL+"/app.apk")
	require.NoError(t, err)
	defer stream.Body.Close()

	assert.Equal(t, int64(len(body)), stream.ContentLength)
	read, err := io.ReadAll(stream.Body)
	require.NoError(t, err)
	assert.Equal(t, body, read)
}

func TestGetStream_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(nil)
	_, err := client.GetStream(context.Background(), server.URL+"/app.apk")
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(&Options{})
	assert.Equal(t, DefaultTimeout, client.opts.Timeout)
	assert.Equal(t, DefaultStreamTimeout, client.opts.StreamTimeout)
	assert.NotEmpty(t, client.opts.UserAgent)
}
