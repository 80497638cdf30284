package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ismyjobsafe/jobsafe-backend/internal/dto"
	"github.com/ismyjobsafe/jobsafe-backend/internal/llm"
	"github.com/ismyjobsafe/jobsafe-backend/internal/models"
	"github.com/ismyjobsafe/jobsafe-backend/internal/prompts"
	"gorm.io/gorm"
)

const (
	minProfileLength = 20
	maxProfileLength = 10_000
)

// AnalysisService runs the free replaceability scoring pipeline: validate
// input, call the LLM, parse and validate the JSON answer, store the
// Analysis row.
type AnalysisService struct {
	db  *gorm.DB
	llm llm.Client
}

func NewAnalysisService(db *gorm.DB, client llm.Client) *AnalysisService {
	return &AnalysisService{db: db, llm: client}
}

// Analyze scores a profile and stores the result. The analysis id may be
// empty when the result could not be persisted; the score is still
// returned (the store outage degrades to "not purchasable", not "no
// service").
func (s *AnalysisService) Analyze(ctx context.Context, profileText string) (*dto.AnalysisResult, string, error) {
	trimmed := strings.TrimSpace(profileText)

	if len(trimmed) < minProfileLength {
		return nil, "", NewStatusError(400, fmt.Sprintf(
			"Profile text is too short. Provide at least %d characters describing the role or background.", minProfileLength))
	}
	if len(trimmed) > maxProfileLength {
		return nil, "", NewStatusError(400, fmt.Sprintf(
			"Profile text exceeds the maximum allowed length of %d characters.", maxProfileLength))
	}

	rawText, err := s.llm.Complete(ctx, llm.Request{
		System:      prompts.AnalysisSystemPrompt,
		User:        prompts.BuildAnalysisUserPrompt(trimmed),
		Temperature: 0.1,
		MaxTokens:   1024,
	})
	if err != nil {
		return nil, "", NewStatusError(502, "LLM API request failed: "+err.Error())
	}

	jsonText := llm.StripFences(rawText)

	var result dto.AnalysisResult
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return nil, "", NewStatusError(422, "Failed to parse model response as JSON. Raw response: "+snippet(rawText, 200))
	}
	if err := result.Validate(); err != nil {
		return nil, "", NewStatusError(422, err.Error())
	}

	resultJSON, err := json.Marshal(&result)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode analysis result: %w", err)
	}

	analysis := models.Analysis{
		ID:          uuid.New(),
		ProfileText: trimmed,
		Result:      resultJSON,
	}
	if err := s.db.Create(&analysis).Error; err != nil {
		// Best effort: the user still gets the score this once.
		slog.Error("failed to save analysis", "action", "analyze", "error", err.Error())
		return &result, "", nil
	}

	return &result, analysis.ID.String(), nil
}

// FindAnalysis loads a stored analysis by id.
func (s *AnalysisService) FindAnalysis(id uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := s.db.First(&analysis, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}
	return &analysis, nil
}

func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
