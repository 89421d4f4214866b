// Package paypal verifies payment captures against the PayPal Orders API.
package paypal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/SampritiSC2/react-proshop/internal/domain"
	apperrors "github.com/SampritiSC2/react-proshop/pkg/errors"
	"github.com/SampritiSC2/react-proshop/pkg/httpclient"
)

// Config holds PayPal API credentials and endpoint.
type Config struct {
	APIBase  string
	ClientID string
	Secret   string
}

// Verifier checks capture status against PayPal. All outbound calls run
// through a circuit breaker so a gateway outage fails fast instead of
// tying up request handlers.
type Verifier struct {
	cfg    Config
	client *httpclient.CircuitBreakerClient
	logger *slog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// New creates a PayPal verifier.
func New(cfg Config, logger *slog.Logger) *Verifier {
	base := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("paypal"), logger)

	return &Verifier{
		cfg:    cfg,
		client: cb,
		logger: logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type orderResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// token returns a cached OAuth access token, refreshing when expired.
func (v *Verifier) token(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.accessToken != "" && time.Now().Before(v.tokenExpiry) {
		return v.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.cfg.APIBase+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(v.cfg.ClientID + ":" + v.cfg.Secret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("request paypal token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", fmt.Errorf("paypal token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode paypal token: %w", err)
	}

	v.accessToken = tok.AccessToken
	// Refresh a minute early to avoid using a token right at its expiry.
	v.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)

	return v.accessToken, nil
}

// Verify fetches the PayPal order for the given capture ID and confirms it
// completed.
func (v *Verifier) Verify(ctx context.Context, captureID string) (*domain.PaymentResult, error) {
	if captureID == "" {
		return nil, apperrors.InvalidInput("payment id is required")
	}

	token, err := v.token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		v.cfg.APIBase+"/v2/checkout/orders/"+url.PathEscape(captureID), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create order lookup request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("lookup paypal order: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, apperrors.InvalidInput("payment not found at gateway")
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, fmt.Errorf("paypal order lookup failed with status %d: %s", resp.StatusCode, string(body))
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode paypal order: %w", err)
	}

	if order.Status != "COMPLETED" {
		v.logger.WarnContext(ctx, "payment capture not completed",
			slog.String("capture_id", captureID),
			slog.String("status", order.Status),
		)
		return nil, apperrors.InvalidInput("payment is not completed")
	}

	return &domain.PaymentResult{
		ID:           order.ID,
		Status:       order.Status,
		UpdateTime:   order.UpdateTime,
		EmailAddress: order.Payer.EmailAddress,
	}, nil
}
