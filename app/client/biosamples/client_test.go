package biosamples

import (
	"biosearch/app/graph"
	"biosearch/app/graph/result"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSearch(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/biosamples/graph/search", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("size"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"))

		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(data, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"nodes": [{"id": "1", "type": "Sample", "attributes": {"accession": "SAMEA1", "name": "one"}}],
			"links": [],
			"page": 2, "size": 25, "total": 26
		}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL+"/biosamples", srv.Client())
	require.NoError(t, err)

	doc := graph.Document{
		Nodes: []graph.Node{{ID: "a1", Kind: graph.KindSample, Attributes: map[string]any{"organism": "Homo sapiens"}}},
		Links: []graph.Link{},
	}

	resp, err := client.Search(context.Background(), doc, 2, 25)
	require.NoError(t, err)

	require.Len(t, resp.Nodes, 1)
	assert.Equal(t, result.Page{Number: 2, Size: 25, Total: 26}, resp.Page)

	assert.Equal(t, map[string]any{
		"nodes": []any{map[string]any{"id": "a1", "type": "Sample", "attributes": map[string]any{"organism": "Homo sapiens"}}},
		"links": []any{},
	}, gotBody)
}

func TestClientSearchOmitsZeroPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"nodes": [], "links": []}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, nil)
	require.NoError(t, err)

	_, err = client.Search(context.Background(), graph.Document{}, 0, 0)
	require.NoError(t, err)
}

func TestClientSearchStatusError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"spring error", http.StatusBadRequest, `{"status": 400, "error": "Bad Request", "message": "Invalid relationship"}`, "Invalid relationship"},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down"},
		{"empty body", http.StatusServiceUnavailable, "", "503 Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := New(srv.URL, srv.Client())
			require.NoError(t, err)

			_, err = client.Search(context.Background(), graph.Document{}, 1, 10)

			var transportErr *TransportError
			require.True(t, errors.As(err, &transportErr))
			assert.Equal(t, tt.status, transportErr.Status)
			assert.Equal(t, tt.message, transportErr.Message)
		})
	}
}

func TestErrorMessageTruncatesOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("a", maxErrorMessage-1) + "ü tail"

	msg := errorMessage("500 Internal Server Error", []byte(body))
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, strings.Repeat("a", maxErrorMessage-1), msg)

	msg = errorMessage("500 Internal Server Error", []byte(strings.Repeat("日", maxErrorMessage)))
	assert.True(t, utf8.ValidString(msg))
	assert.LessOrEqual(t, len(msg), maxErrorMessage)
	assert.Equal(t, (maxErrorMessage/3)*3, len(msg))
}

func TestClientSearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"links": []}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = client.Search(context.Background(), graph.Document{}, 1, 10)
	assert.ErrorIs(t, err, result.ErrMalformedResponse)
}

func TestClientSearchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := New(url, &http.Client{Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), graph.Document{}, 1, 10)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Zero(t, transportErr.Status)
}

func TestClientSearchCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := New(srv.URL, srv.Client())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Search(ctx, graph.Document{}, 1, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
