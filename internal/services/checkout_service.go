package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ismyjobsafe/jobsafe-backend/internal/config"
	"github.com/ismyjobsafe/jobsafe-backend/internal/models"
)

// CheckoutService creates hosted Lemon Squeezy checkout sessions. The
// user id and analysis id travel as checkout custom data so the webhook
// can bind the resulting order back to the account and analysis.
type CheckoutService struct {
	cfg    *config.Config
	client *http.Client
}

func NewCheckoutService(cfg *config.Config) *CheckoutService {
	return &CheckoutService{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type checkoutResponse struct {
	Data struct {
		Attributes struct {
			URL string `json:"url"`
		} `json:"attributes"`
	} `json:"data"`
}

// CreateCheckout returns the hosted checkout URL for the user to complete
// payment for the given analysis.
func (s *CheckoutService) CreateCheckout(ctx context.Context, user *models.User, analysisID string) (string, error) {
	if s.cfg.LemonSqueezyAPIKey == "" || s.cfg.LemonSqueezyStoreID == "" || s.cfg.LemonSqueezyVariantID == "" {
		return "", NewStatusError(500, "Checkout is not configured.")
	}

	body := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "checkouts",
			"attributes": map[string]interface{}{
				"checkout_data": map[string]interface{}{
					"email": user.Email,
					"custom": map[string]string{
						"email":       user.Email,
						"user_id":     user.ID.String(),
						"analysis_id": analysisID,
					},
				},
				"product_options": map[string]interface{}{
					"redirect_url": s.cfg.LemonSqueezySuccessURL,
				},
				"test_mode": s.cfg.LemonSqueezyTestMode,
			},
			"relationships": map[string]interface{}{
				"store": map[string]interface{}{
					"data": map[string]string{"type": "stores", "id": s.cfg.LemonSqueezyStoreID},
				},
				"variant": map[string]interface{}{
					"data": map[string]string{"type": "variants", "id": s.cfg.LemonSqueezyVariantID},
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("checkout payload encoding failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.LemonSqueezyAPIURL+"/v1/checkouts", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("checkout request creation failed: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Content-Type", "application/vnd.api+json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.LemonSqueezyAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Error("checkout request failed", "error", err.Error())
		return "", NewStatusError(502, "Payment provider unavailable. Please try again.")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", NewStatusError(502, "Payment provider unavailable. Please try again.")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("checkout creation rejected", "status", resp.StatusCode, "body", snippet(string(raw), 300))
		return "", NewStatusError(502, "Payment provider unavailable. Please try again.")
	}

	var parsed checkoutResponse
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Data.Attributes.URL == "" {
		slog.Error("checkout response missing url", "body", snippet(string(raw), 300))
		return "", NewStatusError(502, "Payment provider returned an unexpected response.")
	}
	return parsed.Data.Attributes.URL, nil
}
