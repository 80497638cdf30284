package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ismyjobsafe/jobsafe-backend/internal/models"
	"github.com/ismyjobsafe/jobsafe-backend/internal/payments"
	"github.com/ismyjobsafe/jobsafe-backend/internal/services"
	"github.com/ismyjobsafe/jobsafe-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{ID: uuid.New(), Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedAnalysis(t *testing.T, db *gorm.DB) *models.Analysis {
	t.Helper()
	analysis := models.Analysis{
		ID:          uuid.New(),
		ProfileText: "Backend engineer, 6 years, payments infrastructure.",
		Result:      datatypes.JSON(`{"replaceability_score":55,"automation_risk":"Medium"}`),
	}
	require.NoError(t, db.Create(&analysis).Error)
	return &analysis
}

func orderCreatedEvent(user *models.User, analysis *models.Analysis, paymentID string) *payments.Event {
	return &payments.Event{
		Provider:   "lemonsqueezy",
		RawType:    "order_created",
		Type:       payments.EventOrderCreated,
		Status:     models.StatusActive,
		Email:      user.Email,
		PaymentID:  paymentID,
		UserIDHint: user.ID.String(),
		AnalysisID: analysis.ID.String(),
	}
}

func TestHandleEventOrderCreated(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewSubscriptionService(db)
	user := seedUser(t, db, "buyer@example.com")
	analysis := seedAnalysis(t, db)

	require.NoError(t, svc.HandleEvent(orderCreatedEvent(user, analysis, "order-1")))

	var report models.Report
	require.NoError(t, db.First(&report, "payment_id = ?", "order-1").Error)
	assert.Equal(t, user.ID, report.UserID)
	assert.Equal(t, user.Email, report.UserEmail)
	assert.Equal(t, analysis.ID, report.SourceAnalysisID)
	assert.JSONEq(t, string(analysis.Result), string(report.ReportData))

	var sub models.Subscription
	require.NoError(t, db.First(&sub, "email = ?", user.Email).Error)
	assert.Equal(t, models.StatusActive, sub.Status)
	assert.Equal(t, "order-1", sub.OrderID)
}

func TestHandleEventOrderCreatedReplayIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewSubscriptionService(db)
	user := seedUser(t, db, "buyer@example.com")
	analysis := seedAnalysis(t, db)

	ev := orderCreatedEvent(user, analysis, "order-replayed")
	require.NoError(t, svc.HandleEvent(ev))
	require.NoError(t, svc.HandleEvent(ev))
	require.NoError(t, svc.HandleEvent(ev))

	var count int64
	require.NoError(t, db.Model(&models.Report{}).Where("payment_id = ?", "order-replayed").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHandleEventSecondPurchaseOfSameAnalysis(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewSubscriptionService(db)
	user := seedUser(t, db, "buyer@example.com")
	analysis := seedAnalysis(t, db)

	require.NoError(t, svc.HandleEvent(orderCreatedEvent(user, analysis, "order-a")))
	require.NoError(t, svc.HandleEvent(orderCreatedEvent(user, analysis, "order-b")))

	var count int64
	require.NoError(t, db.Model(&models.Report{}).Where("source_analysis_id = ?", analysis.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestHandleEventUserResolvedByEmailWhenHintMissing(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewSubscriptionService(db)
	user := seedUser(t, db, "byemail@example.com")
	analysis := seedAnalysis(t, db)

	ev := orderCreatedEvent(user, analysis, "order-email")
	ev.UserIDHint = ""
	require.NoError(t, svc.HandleEvent(ev))

	var report models.Report
	require.NoError(t, db.First(&report, "payment_id = ?", "order-email").Error)
	assert.Equal(t, user.ID, report.UserID)
}

func TestHandleEventUnknownAccount(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewSubscriptionService(db)
	analysis := seedAnalysis(t, db)

	ev := &payments.Event{
		Type:       payments.EventOrderCreated,
		Status:     models.StatusActive,
		Email:      "ghost@example.com",
		PaymentID:  "order-ghost",
		AnalysisID: analysis.ID.String(),
	}
	err := svc.HandleEvent(ev)
	require.Error(t, err)
	assert.Equal(t, 404, services.HTTPStatus(err, 500))

	var count int64
	require.NoError(t, db.Model(&models.Report{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHandleEventMissingAnalysis(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewSubscriptionService(db)
	user := seedUser(t, db, "buyer@example.com")

	ev := &payments.Event{
		Type:       payments.EventOrderCreated,
		Status:     models.StatusActive,
		Email:      user.Email,
		PaymentID:  "order-noanalysis",
		AnalysisID: uuid.NewString(),
	}
	err := svc.HandleEvent(ev)
	require.Error(t, err)
	assert.Equal(t, 404, services.HTTPStatus(err, 500))
}

func TestHandleEventUnmappableStatusIsNoOp(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewSubscriptionService(db)

	ev := &payments.Event{
		Type:   payments.EventSubscriptionUpdated,
		Status: "",
		Email:  "someone@example.com",
	}
	require.NoError(t, svc.HandleEvent(ev))

	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHandleEventSubscriptionUpsert(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewSubscriptionService(db)

	periodEnd := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	created := &payments.Event{
		Provider:         "paddle",
		Type:             payments.EventSubscriptionCreated,
		Status:           models.StatusTrialing,
		Email:            "sub@example.com",
		SubscriptionID:   "sub_1",
		CustomerID:       "ctm_1",
		CurrentPeriodEnd: &periodEnd,
	}
	require.NoError(t, svc.HandleEvent(created))

	var sub models.Subscription
	require.NoError(t, db.First(&sub, "email = ?", "sub@example.com").Error)
	assert.Equal(t, models.StatusTrialing, sub.Status)
	require.NotNil(t, sub.CurrentPeriodEnd)

	// A later event overwrites status but keeps identifiers it lacks.
	cancelled := &payments.Event{
		Provider: "paddle",
		Type:     payments.EventSubscriptionCancelled,
		Status:   models.StatusCancelled,
		Email:    "sub@example.com",
	}
	require.NoError(t, svc.HandleEvent(cancelled))

	require.NoError(t, db.First(&sub, "email = ?", "sub@example.com").Error)
	assert.Equal(t, models.StatusCancelled, sub.Status)
	assert.Equal(t, "sub_1", sub.SubscriptionID)
	assert.Equal(t, "ctm_1", sub.CustomerID)

	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIsActive(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.False(t, services.IsActive(nil, now))
	assert.True(t, services.IsActive(&models.Subscription{Status: models.StatusActive}, now))
	assert.True(t, services.IsActive(&models.Subscription{Status: models.StatusTrialing, CurrentPeriodEnd: &future}, now))
	assert.False(t, services.IsActive(&models.Subscription{Status: models.StatusActive, CurrentPeriodEnd: &past}, now))
	assert.False(t, services.IsActive(&models.Subscription{Status: models.StatusCancelled}, now))
	assert.False(t, services.IsActive(&models.Subscription{Status: models.StatusPastDue, CurrentPeriodEnd: &future}, now))
}

func TestFindOwnedReport(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewSubscriptionService(db)
	user := seedUser(t, db, "owner@example.com")
	analysis := seedAnalysis(t, db)

	require.NoError(t, svc.HandleEvent(orderCreatedEvent(user, analysis, "order-own")))

	report, err := svc.FindOwnedReport(user.ID, user.Email, analysis.ID)
	require.NoError(t, err)
	require.NotNil(t, report)

	// Email alone is enough when the account id does not match.
	report, err = svc.FindOwnedReport(uuid.New(), user.Email, analysis.ID)
	require.NoError(t, err)
	assert.NotNil(t, report)

	// A stranger gets nothing.
	report, err = svc.FindOwnedReport(uuid.New(), "other@example.com", analysis.ID)
	require.NoError(t, err)
	assert.Nil(t, report)
}
