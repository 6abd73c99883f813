package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "github.com/grocermart/grocermart/internal/domain/payment"

	"github.com/shopspring/decimal"
)

// client is the shared HTTP plumbing for both payment rails. Each rail is a
// separate external processor with the same envelope shape.
type client struct {
	baseURL string
	authKey string
	http    *http.Client
}

func newClient(baseURL, authKey string) client {
	return client{
		baseURL: baseURL,
		authKey: authKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type sessionRequest struct {
	Amount   string            `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type sessionResponse struct {
	Ref         string `json:"ref"`
	RedirectURL string `json:"url,omitempty"`
	ClientToken string `json:"token,omitempty"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
	Amount string `json:"amount"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c client) createSession(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*sessionResponse, error) {
	payload, err := json.Marshal(sessionRequest{
		Amount:   amount.StringFixed(2),
		Currency: currency,
		Metadata: metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	var resp sessionResponse
	if err := c.post(ctx, "/sessions", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("gateway error %s: %s", resp.Error.Code, resp.Error.Message)
	}
	if resp.Ref == "" {
		return nil, fmt.Errorf("gateway returned empty reference")
	}
	return &resp, nil
}

func (c client) confirm(ctx context.Context, reference string) (*domain.Confirmation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sessions/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.authKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrSessionNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway status %d: %s", resp.StatusCode, body)
	}

	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}
	if status.Error != nil {
		return nil, fmt.Errorf("gateway error %s: %s", status.Error.Code, status.Error.Message)
	}

	amount, err := decimal.NewFromString(status.Amount)
	if err != nil {
		amount = decimal.Zero
	}
	return &domain.Confirmation{
		Status: domain.Status(status.Status),
		Amount: amount,
	}, nil
}

func (c client) post(ctx context.Context, path string, payload []byte, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.authKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("io.ReadAll: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway status %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}
	return nil
}
