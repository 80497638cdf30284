package dto

import "time"

type CheckoutRequest struct {
	AnalysisID string `json:"analysisId"`
}

type CheckoutResponse struct {
	Success     bool   `json:"success"`
	CheckoutURL string `json:"checkoutUrl"`
}

type SubscriptionStatusResponse struct {
	Active           bool       `json:"active"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd,omitempty"`
}

type ReportResponse struct {
	ID         string      `json:"id"`
	AnalysisID string      `json:"analysisId"`
	PaymentID  string      `json:"paymentId"`
	CreatedAt  time.Time   `json:"createdAt"`
	ReportData interface{} `json:"reportData"`
}
