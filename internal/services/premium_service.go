package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ismyjobsafe/jobsafe-backend/internal/dto"
	"github.com/ismyjobsafe/jobsafe-backend/internal/llm"
	"github.com/ismyjobsafe/jobsafe-backend/internal/models"
	"github.com/ismyjobsafe/jobsafe-backend/internal/prompts"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PremiumService gates premium report generation behind purchase state and
// caches generated artifacts per (user, analysis, kind). Concurrent
// requests for the same artifact collapse onto one generation via
// singleflight; replays are served from the artifacts table.
type PremiumService struct {
	db   *gorm.DB
	llm  llm.Client
	subs *SubscriptionService
	sf   singleflight.Group
}

func NewPremiumService(db *gorm.DB, llmClient llm.Client, subs *SubscriptionService) *PremiumService {
	return &PremiumService{db: db, llm: llmClient, subs: subs}
}

// Authorize decides whether the identity may generate premium content for
// the analysis. An owned report for that analysis grants access, and so
// does a currently active subscription on the account email.
func (s *PremiumService) Authorize(userID uuid.UUID, email string, analysisID uuid.UUID) error {
	report, err := s.subs.FindOwnedReport(userID, email, analysisID)
	if err != nil {
		return err
	}
	if report != nil {
		return nil
	}

	sub, err := s.subs.FindByEmail(email)
	if err != nil {
		return err
	}
	if IsActive(sub, time.Now()) {
		return nil
	}

	return NewStatusError(403, "Purchase required for this premium report.")
}

type generated struct {
	payload json.RawMessage
	cached  bool
}

// generatorFunc produces one artifact payload from the frozen analysis.
type generatorFunc func(ctx context.Context, analysis *models.Analysis, result *dto.AnalysisResult) (interface{}, error)

// getOrGenerate returns the cached artifact when one exists, otherwise
// runs gen exactly once per in-flight (userKey, analysisID, kind) and
// caches the result best-effort. The bool reports a cache hit.
func (s *PremiumService) getOrGenerate(ctx context.Context, userKey string, analysisID uuid.UUID, kind string, gen generatorFunc) (json.RawMessage, bool, error) {
	key := userKey + "|" + analysisID.String() + "|" + kind

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		var artifact models.PremiumArtifact
		err := s.db.
			Where("user_key = ? AND analysis_id = ? AND kind = ?", userKey, analysisID, kind).
			First(&artifact).Error
		if err == nil {
			return generated{payload: json.RawMessage(artifact.Payload), cached: true}, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		var analysis models.Analysis
		if err := s.db.First(&analysis, "id = ?", analysisID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, NewStatusError(404, ErrAnalysisNotFound.Error())
			}
			return nil, err
		}

		var result dto.AnalysisResult
		if err := json.Unmarshal(analysis.Result, &result); err != nil {
			return nil, NewStatusError(500, "Stored analysis is unreadable.")
		}

		payload, err := gen(ctx, &analysis, &result)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		record := models.PremiumArtifact{
			ID:         uuid.New(),
			UserKey:    userKey,
			AnalysisID: analysisID,
			Kind:       kind,
			Payload:    datatypes.JSON(raw),
		}
		if err := s.db.Create(&record).Error; err != nil {
			// Generation succeeded; losing the cache row only costs a
			// regeneration on the next request.
			slog.Error("premium artifact cache write failed",
				"kind", kind, "analysis_id", analysisID.String(), "error", err.Error())
		}
		return generated{payload: json.RawMessage(raw)}, nil
	})
	if err != nil {
		return nil, false, err
	}
	g := v.(generated)
	return g.payload, g.cached, nil
}

// complete runs one LLM call and decodes its fenced-or-bare JSON answer
// into out, mapping provider failures to 502 and malformed answers to 422.
func (s *PremiumService) complete(ctx context.Context, req llm.Request, out interface{ Validate() error }) error {
	raw, err := s.llm.Complete(ctx, req)
	if err != nil {
		slog.Error("premium generation LLM call failed", "error", err.Error())
		return NewStatusError(502, "AI service unavailable. Please try again.")
	}

	cleaned := llm.StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		slog.Error("premium generation returned invalid JSON", "snippet", snippet(cleaned, 200))
		return NewStatusError(422, "AI returned an unexpected response. Please try again.")
	}
	if err := out.Validate(); err != nil {
		slog.Error("premium generation failed shape validation", "error", err.Error())
		return NewStatusError(422, "AI returned an unexpected response. Please try again.")
	}
	return nil
}

// ProtectionPlan returns the 12-month, 4-quarter career protection plan.
func (s *PremiumService) ProtectionPlan(ctx context.Context, userKey string, analysisID uuid.UUID) (json.RawMessage, bool, error) {
	return s.getOrGenerate(ctx, userKey, analysisID, models.ArtifactProtectionPlan,
		func(ctx context.Context, _ *models.Analysis, r *dto.AnalysisResult) (interface{}, error) {
			var plan dto.ProtectionPlanPayload
			err := s.complete(ctx, llm.Request{
				System:      prompts.ProtectionPlanSystemPrompt,
				User:        prompts.BuildProtectionPlanUserPrompt(r.ReplaceabilityScore, r.AutomationRisk, r.Reasons, r.RecommendedUpgrades),
				Temperature: 0.6,
				MaxTokens:   2048,
			}, &plan)
			if err != nil {
				return nil, err
			}
			return &plan, nil
		})
}

// SalaryProjection returns the three-scenario salary trajectory. The first
// request's salary and country win the cache slot; later requests for the
// same analysis are served the stored projection.
func (s *PremiumService) SalaryProjection(ctx context.Context, userKey string, analysisID uuid.UUID, salary float64, country string) (json.RawMessage, bool, error) {
	return s.getOrGenerate(ctx, userKey, analysisID, models.ArtifactSalaryProjection,
		func(ctx context.Context, _ *models.Analysis, r *dto.AnalysisResult) (interface{}, error) {
			var proj dto.SalaryProjectionPayload
			err := s.complete(ctx, llm.Request{
				System:      prompts.SalaryProjectionSystemPrompt,
				User:        prompts.BuildSalaryProjectionUserPrompt(salary, country, r.ReplaceabilityScore, r.AutomationRisk, r.SkillDefensibilityScore, r.RecommendedUpgrades),
				Temperature: 0.4,
				MaxTokens:   2048,
			}, &proj)
			if err != nil {
				return nil, err
			}
			return &proj, nil
		})
}

// MarketComparison returns the peer-market positioning report.
func (s *PremiumService) MarketComparison(ctx context.Context, userKey string, analysisID uuid.UUID) (json.RawMessage, bool, error) {
	return s.getOrGenerate(ctx, userKey, analysisID, models.ArtifactMarketComparison,
		func(ctx context.Context, a *models.Analysis, r *dto.AnalysisResult) (interface{}, error) {
			var cmp dto.MarketComparisonPayload
			err := s.complete(ctx, llm.Request{
				System: prompts.MarketComparisonSystemPrompt,
				User: prompts.BuildMarketComparisonUserPrompt(
					r.ReplaceabilityScore, r.SkillDefensibilityScore, r.AutomationRisk,
					r.MarketSaturation, r.ComparisonPercentile, r.Reasons, r.RecommendedUpgrades,
					snippet(a.ProfileText, 2000)),
				Temperature: 0.35,
				MaxTokens:   2048,
			}, &cmp)
			if err != nil {
				return nil, err
			}
			return &cmp, nil
		})
}

// AISimulation returns the 3-year automation exposure simulation.
func (s *PremiumService) AISimulation(ctx context.Context, userKey string, analysisID uuid.UUID) (json.RawMessage, bool, error) {
	return s.getOrGenerate(ctx, userKey, analysisID, models.ArtifactAISimulation,
		func(ctx context.Context, a *models.Analysis, r *dto.AnalysisResult) (interface{}, error) {
			var sim dto.AISimulationPayload
			err := s.complete(ctx, llm.Request{
				System: prompts.AISimulationSystemPrompt,
				User: prompts.BuildAISimulationUserPrompt(
					r.ReplaceabilityScore, r.AutomationRisk, r.SkillDefensibilityScore,
					r.Reasons, r.RecommendedUpgrades, snippet(a.ProfileText, 2000)),
				Temperature: 0.5,
				MaxTokens:   2048,
			}, &sim)
			if err != nil {
				return nil, err
			}
			return &sim, nil
		})
}
