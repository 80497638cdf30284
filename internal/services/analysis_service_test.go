package services_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/ismyjobsafe/jobsafe-backend/internal/models"
	"github.com/ismyjobsafe/jobsafe-backend/internal/services"
	"github.com/ismyjobsafe/jobsafe-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAnalysisJSON = `{
	"replaceability_score": 62,
	"automation_risk": "medium",
	"skill_defensibility_score": 55,
	"market_saturation": "high",
	"reasons": ["routine reporting work", "standardized tooling"],
	"recommended_upgrades": ["own an ambiguous problem space", "ship AI-assisted workflows"],
	"comparison_percentile": 48,
	"confidence": 80,
	"why_this_matters": "Scores in this band shift quickly.",
	"if_you_do_nothing": "Expect pressure on routine tasks within two years."
}`

const validProfile = "Financial analyst with five years of experience building Excel models and quarterly reports."

func TestAnalyzeHappyPath(t *testing.T) {
	db := testutil.OpenDB(t)
	client := &fakeLLM{response: validAnalysisJSON}
	svc := services.NewAnalysisService(db, client)

	result, analysisID, err := svc.Analyze(context.Background(), validProfile)
	require.NoError(t, err)
	assert.Equal(t, 62, result.ReplaceabilityScore)
	assert.Equal(t, "medium", result.AutomationRisk)
	require.NotEmpty(t, analysisID)

	// The row is persisted and retrievable.
	id, err := uuid.Parse(analysisID)
	require.NoError(t, err)
	stored, err := svc.FindAnalysis(id)
	require.NoError(t, err)
	assert.Equal(t, validProfile, stored.ProfileText)
	assert.JSONEq(t, string(stored.Result), mustMarshal(t, result))
}

func mustMarshal(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

func TestAnalyzeProfileBounds(t *testing.T) {
	db := testutil.OpenDB(t)
	client := &fakeLLM{response: validAnalysisJSON}
	svc := services.NewAnalysisService(db, client)

	t.Run("too short", func(t *testing.T) {
		_, _, err := svc.Analyze(context.Background(), "too short")
		require.Error(t, err)
		assert.Equal(t, 400, services.HTTPStatus(err, 500))
		assert.Zero(t, client.callCount())
	})

	t.Run("whitespace does not count", func(t *testing.T) {
		_, _, err := svc.Analyze(context.Background(), "   short    \n\n   ")
		require.Error(t, err)
		assert.Equal(t, 400, services.HTTPStatus(err, 500))
	})

	t.Run("too long", func(t *testing.T) {
		_, _, err := svc.Analyze(context.Background(), strings.Repeat("a", 10_001))
		require.Error(t, err)
		assert.Equal(t, 400, services.HTTPStatus(err, 500))
		assert.Zero(t, client.callCount())
	})
}

func TestAnalyzeFencedResponse(t *testing.T) {
	db := testutil.OpenDB(t)
	client := &fakeLLM{response: "```json\n" + validAnalysisJSON + "\n```"}
	svc := services.NewAnalysisService(db, client)

	result, _, err := svc.Analyze(context.Background(), validProfile)
	require.NoError(t, err)
	assert.Equal(t, 62, result.ReplaceabilityScore)
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	db := testutil.OpenDB(t)
	client := &fakeLLM{err: context.DeadlineExceeded}
	svc := services.NewAnalysisService(db, client)

	_, _, err := svc.Analyze(context.Background(), validProfile)
	require.Error(t, err)
	assert.Equal(t, 502, services.HTTPStatus(err, 500))
}

func TestAnalyzeNonJSONResponse(t *testing.T) {
	db := testutil.OpenDB(t)
	client := &fakeLLM{response: "I'm sorry, I can't produce JSON today."}
	svc := services.NewAnalysisService(db, client)

	_, _, err := svc.Analyze(context.Background(), validProfile)
	require.Error(t, err)
	assert.Equal(t, 422, services.HTTPStatus(err, 500))

	var count int64
	require.NoError(t, db.Model(&models.Analysis{}).Count(&count).Error)
	assert.Zero(t, count, "invalid results are never persisted")
}

func TestAnalyzeOutOfRangeScore(t *testing.T) {
	db := testutil.OpenDB(t)
	client := &fakeLLM{response: strings.Replace(validAnalysisJSON, `"replaceability_score": 62`, `"replaceability_score": 140`, 1)}
	svc := services.NewAnalysisService(db, client)

	_, _, err := svc.Analyze(context.Background(), validProfile)
	require.Error(t, err)
	assert.Equal(t, 422, services.HTTPStatus(err, 500))
}

func TestFindAnalysisMissing(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewAnalysisService(db, &fakeLLM{})

	_, err := svc.FindAnalysis(uuid.New())
	assert.ErrorIs(t, err, services.ErrAnalysisNotFound)
}
