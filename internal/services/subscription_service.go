package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ismyjobsafe/jobsafe-backend/internal/models"
	"github.com/ismyjobsafe/jobsafe-backend/internal/payments"
	"gorm.io/gorm"
)

// SubscriptionService is the webhook reconciler and the ownership store:
// it turns normalized payment events into Subscription/Report state and
// answers the access gate's two lookups.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// FindByEmail returns the subscription row for an email, or (nil, nil)
// when none exists.
func (s *SubscriptionService) FindByEmail(email string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Where("email = ?", email).First(&sub).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// IsActive reports whether a subscription grants premium access right now:
// status active or trialing, and no period end or one still in the future.
func IsActive(sub *models.Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	if sub.Status != models.StatusActive && sub.Status != models.StatusTrialing {
		return false
	}
	return sub.CurrentPeriodEnd == nil || sub.CurrentPeriodEnd.After(now)
}

// FindOwnedReport returns any Report binding the identity to the analysis.
// A report matching either the account id or the email counts; two Reports
// for the same analysis are possible and either one suffices.
func (s *SubscriptionService) FindOwnedReport(userID uuid.UUID, email string, analysisID uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := s.db.
		Where("source_analysis_id = ? AND (user_id = ? OR user_email = ?)", analysisID, userID, email).
		First(&report).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListReports returns all reports owned by the identity, newest first.
func (s *SubscriptionService) ListReports(userID uuid.UUID, email string) ([]models.Report, error) {
	var reports []models.Report
	err := s.db.
		Where("user_id = ? OR user_email = ?", userID, email).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

// HandleEvent applies one normalized payment event. Any persistence error
// is returned so the handler answers 500 and the provider redelivers; a
// missing account or analysis on order_created is returned for the same
// reason (the underlying data may simply not have committed yet).
func (s *SubscriptionService) HandleEvent(ev *payments.Event) error {
	if ev.Status == "" {
		// Unmappable provider status: acknowledged, no-op.
		return nil
	}

	if ev.Type == payments.EventOrderCreated {
		if err := s.materializeReport(ev); err != nil {
			return err
		}
	}

	return s.upsertSubscription(ev)
}

// materializeReport freezes the purchased analysis into a Report, exactly
// once per payment id. Webhook replays find the existing row and skip.
func (s *SubscriptionService) materializeReport(ev *payments.Event) error {
	var existing models.Report
	err := s.db.Select("id").Where("payment_id = ?", ev.PaymentID).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("report lookup failed: %w", err)
	}

	if ev.AnalysisID == "" {
		return NewStatusError(400, "Missing analysis_id in webhook payload.")
	}
	analysisID, err := uuid.Parse(ev.AnalysisID)
	if err != nil {
		return NewStatusError(400, "Invalid analysis_id in webhook payload.")
	}

	user, err := s.resolvePurchaser(ev)
	if err != nil {
		return err
	}

	var analysis models.Analysis
	if err := s.db.First(&analysis, "id = ?", analysisID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return NewStatusError(404, "Source analysis not found.")
		}
		return fmt.Errorf("analysis lookup failed: %w", err)
	}

	report := models.Report{
		ID:               uuid.New(),
		UserID:           user.ID,
		UserEmail:        user.Email,
		SourceAnalysisID: analysis.ID,
		ReportData:       analysis.Result,
		PaymentID:        ev.PaymentID,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return fmt.Errorf("report creation failed: %w", err)
	}
	return nil
}

// resolvePurchaser finds the account for an order: the user_id hint from
// checkout metadata first, then the customer email.
func (s *SubscriptionService) resolvePurchaser(ev *payments.Event) (*models.User, error) {
	if ev.UserIDHint != "" {
		if id, err := uuid.Parse(ev.UserIDHint); err == nil {
			var user models.User
			if err := s.db.First(&user, "id = ?", id).Error; err == nil {
				return &user, nil
			}
		}
	}

	var user models.User
	err := s.db.Where("email = ?", ev.Email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, NewStatusError(404, ErrAccountNotFound.Error())
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return &user, nil
}

// upsertSubscription writes the event's state onto the one row for this
// email. Last writer wins; provider identifiers are only overwritten when
// the event carries them.
func (s *SubscriptionService) upsertSubscription(ev *payments.Event) error {
	var sub models.Subscription
	err := s.db.Where("email = ?", ev.Email).First(&sub).Error

	if err == gorm.ErrRecordNotFound {
		sub = models.Subscription{
			ID:               uuid.New(),
			Email:            ev.Email,
			Status:           ev.Status,
			Provider:         ev.Provider,
			CustomerID:       ev.CustomerID,
			SubscriptionID:   ev.SubscriptionID,
			OrderID:          ev.PaymentID,
			OrderIdentifier:  ev.OrderIdentifier,
			CurrentPeriodEnd: ev.CurrentPeriodEnd,
		}
		if err := s.db.Create(&sub).Error; err != nil {
			return fmt.Errorf("subscription creation failed: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("subscription lookup failed: %w", err)
	}

	updates := map[string]interface{}{
		"status":   ev.Status,
		"provider": ev.Provider,
	}
	if ev.CustomerID != "" {
		updates["customer_id"] = ev.CustomerID
	}
	if ev.SubscriptionID != "" {
		updates["subscription_id"] = ev.SubscriptionID
	}
	if ev.PaymentID != "" {
		updates["order_id"] = ev.PaymentID
	}
	if ev.OrderIdentifier != "" {
		updates["order_identifier"] = ev.OrderIdentifier
	}
	if ev.CurrentPeriodEnd != nil {
		updates["current_period_end"] = ev.CurrentPeriodEnd
	}

	if err := s.db.Model(&sub).Updates(updates).Error; err != nil {
		return fmt.Errorf("subscription update failed: %w", err)
	}
	return nil
}
