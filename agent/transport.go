package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/beka-birhanu/trapmaze/protocol"
)

// ErrServer is returned when the game server answers with a non-2xx status.
var ErrServer = errors.New("game server error")

// Transport exchanges protocol messages with the game server.
type Transport interface {
	Register(ctx context.Context) (*protocol.RegisterResponse, error)
	SendMoves(ctx context.Context, id, input string) (*protocol.MovesResponse, error)
}

// APIPrefix is the route prefix the game server mounts its handlers under.
const APIPrefix = "/api/v1"

// HTTPTransport talks to the game server over its JSON API.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport returns a transport for the server at address, which may
// omit the scheme. A non-empty port is appended to it.
func NewHTTPTransport(address, port string, timeout time.Duration) *HTTPTransport {
	url := strings.TrimRight(address, "/")
	if port != "" {
		url += ":" + port
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	return &HTTPTransport{
		baseURL: url + APIPrefix,
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the URL requests are resolved against.
func (t *HTTPTransport) BaseURL() string { return t.baseURL }

// Register implements Transport.
func (t *HTTPTransport) Register(ctx context.Context) (*protocol.RegisterResponse, error) {
	var resp protocol.RegisterResponse
	if err := t.post(ctx, "/register_agent", protocol.RegisterRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendMoves implements Transport.
func (t *HTTPTransport) SendMoves(ctx context.Context, id, input string) (*protocol.MovesResponse, error) {
	var resp protocol.MovesResponse
	if err := t.post(ctx, "/receive_moves", protocol.MovesRequest{UUID: id, Input: input}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (t *HTTPTransport) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e protocol.ErrorResponse
		_ = json.NewDecoder(res.Body).Decode(&e)
		return fmt.Errorf("%w: POST %s: %d %s", ErrServer, path, res.StatusCode, e.Error)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("POST %s: decoding response: %w", path, err)
	}
	return nil
}
