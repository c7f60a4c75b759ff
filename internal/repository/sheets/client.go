// Package sheets implements the repository contracts on top of a Google
// Apps Script web app that fronts a spreadsheet. Every call is a JSON POST
// with an action name; the script routes it to the matching sheet.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	apperrors "github.com/chamarodfai/POS/pkg/errors"
	"github.com/chamarodfai/POS/pkg/httpclient"
)

// Client speaks the Apps Script web app protocol.
type Client struct {
	url    string
	token  string
	http   *httpclient.BreakerClient
	logger *slog.Logger
}

// NewClient creates a sheets API client. The breaker keeps a flapping
// spreadsheet backend from stalling every request.
func NewClient(url, token string, http *httpclient.BreakerClient, logger *slog.Logger) *Client {
	return &Client{url: url, token: token, http: http, logger: logger}
}

type request struct {
	Action  string `json:"action"`
	Token   string `json:"token,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Call posts an action with its payload and decodes the response data into
// out (which may be nil when no data is expected). Application-level errors
// from the script are mapped onto the standard error taxonomy.
func (c *Client) Call(ctx context.Context, action string, payload, out any) error {
	body, err := json.Marshal(request{Action: action, Token: c.token, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal sheets request %s: %w", action, err)
	}

	header := http.Header{"Content-Type": []string{"application/json"}}
	resp, err := c.http.Do(ctx, http.MethodPost, c.url, body, header)
	if err != nil {
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			return apperrors.Storage(fmt.Errorf("sheets backend circuit open: %w", err))
		}
		return apperrors.Storage(fmt.Errorf("sheets call %s: %w", action, err))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return apperrors.Storage(fmt.Errorf("read sheets response for %s: %w", action, err))
	}

	if resp.StatusCode != http.StatusOK {
		return apperrors.Storage(fmt.Errorf("sheets call %s returned status %d", action, resp.StatusCode))
	}

	var envelope response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return apperrors.Storage(fmt.Errorf("decode sheets response for %s: %w", action, err))
	}

	if !envelope.Success {
		return c.mapError(action, envelope.Error)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return apperrors.Storage(fmt.Errorf("decode sheets data for %s: %w", action, err))
		}
	}

	return nil
}

func (c *Client) mapError(action string, scriptErr *struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}) error {
	if scriptErr == nil {
		return apperrors.Storage(fmt.Errorf("sheets call %s failed without error detail", action))
	}

	switch scriptErr.Code {
	case "NOT_FOUND":
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: scriptErr.Message,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case "INVALID_INPUT":
		return apperrors.InvalidInput(scriptErr.Message)
	default:
		return apperrors.Storage(fmt.Errorf("sheets call %s failed: %s: %s", action, scriptErr.Code, scriptErr.Message))
	}
}
