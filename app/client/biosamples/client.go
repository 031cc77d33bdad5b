package biosamples

import (
	"biosearch/app/config"
	"biosearch/app/graph"
	"biosearch/app/graph/result"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/do"
	"github.com/samber/oops"
)

const (
	searchPath      = "graph/search"
	maxErrorMessage = 512
)

// TransportError is a network failure or a non-2xx answer from the registry.
// Status is zero when no response was received.
type TransportError struct {
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("graph search transport failure: %s", e.Message)
	}

	return fmt.Sprintf("graph search failed with status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return New(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout})
}

func New(baseURL string, httpClient *http.Client) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, oops.In("biosamples").With("base_url", baseURL).Errorf("invalid base url: %w", err)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    u,
		httpClient: httpClient,
	}, nil
}

// Search posts the query document and normalizes whichever response shape comes back.
// A page or size of zero leaves the backend default.
func (c *Client) Search(ctx context.Context, doc graph.Document, page, size int) (*result.Response, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	endpoint := c.baseURL.ResolveReference(&url.URL{Path: searchPath})
	q := endpoint.Query()
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json, application/hal+json")

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
	}

	slog.Debug("Graph search answered",
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Status: resp.StatusCode, Message: errorMessage(resp.Status, data)}
	}

	return result.Decode(data)
}

func errorMessage(status string, body []byte) string {
	msg := strings.TrimSpace(string(body))

	var springErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &springErr) == nil {
		switch {
		case springErr.Message != "":
			msg = springErr.Message
		case springErr.Error != "":
			msg = springErr.Error
		}
	}

	if msg == "" {
		msg = status
	}
	if len(msg) > maxErrorMessage {
		cut := maxErrorMessage
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}

	return msg
}
