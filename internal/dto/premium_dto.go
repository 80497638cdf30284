package dto

import (
	"errors"
	"math"
)

// PremiumRequest is the common body for premium report endpoints.
type PremiumRequest struct {
	AnalysisID string `json:"analysisId"`
}

// SalaryProjectionRequest carries the extra inputs for the salary report.
type SalaryProjectionRequest struct {
	AnalysisID string  `json:"analysisId"`
	Salary     float64 `json:"salary"`
	Country    string  `json:"country"`
}

// QuarterPlan is one quarter of the 12-month protection plan.
type QuarterPlan struct {
	Quarter           int    `json:"quarter"`
	Objective         string `json:"objective"`
	SkillFocus        string `json:"skill_focus"`
	ProjectSuggestion string `json:"project_suggestion"`
	CareerPositioning string `json:"career_positioning"`
}

// ProtectionPlanPayload is the generated protection-plan artifact shape.
type ProtectionPlanPayload struct {
	Quarters []QuarterPlan `json:"quarters"`
}

func (p *ProtectionPlanPayload) Validate() error {
	if len(p.Quarters) != 4 {
		return errors.New("plan must contain exactly 4 quarters")
	}
	return nil
}

// SalaryScenario is one of the three projection scenarios. Salary fields
// are pointers so a missing number is distinguishable from zero.
type SalaryScenario struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Description    string   `json:"description"`
	SalaryNow      *float64 `json:"salary_now"`
	SalaryYear1    *float64 `json:"salary_year_1"`
	SalaryYear3    *float64 `json:"salary_year_3"`
	RiskCommentary string   `json:"risk_commentary"`
}

type SalaryProjectionPayload struct {
	Scenarios []SalaryScenario `json:"scenarios"`
}

func (p *SalaryProjectionPayload) Validate() error {
	if len(p.Scenarios) != 3 {
		return errors.New("projection must contain exactly 3 scenarios")
	}
	for _, s := range p.Scenarios {
		if s.SalaryNow == nil || s.SalaryYear1 == nil || s.SalaryYear3 == nil {
			return errors.New("each scenario must carry numeric salary fields")
		}
	}
	return nil
}

type MarketStrength struct {
	Area   string `json:"area"`
	Detail string `json:"detail"`
}

type MarketComparisonPayload struct {
	Percentile        *float64         `json:"percentile"`
	PercentileLabel   string           `json:"percentile_label"`
	Summary           string           `json:"summary"`
	Strengths         []MarketStrength `json:"strengths"`
	Weaknesses        []MarketStrength `json:"weaknesses"`
	PositioningAdvice string           `json:"positioning_advice"`
}

// Validate checks the required shape and clamps the percentile into 0-100.
func (p *MarketComparisonPayload) Validate() error {
	if p.Percentile == nil {
		return errors.New("percentile must be a number")
	}
	if p.Strengths == nil || p.Weaknesses == nil {
		return errors.New("strengths and weaknesses must be arrays")
	}
	clamped := math.Round(*p.Percentile)
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}
	*p.Percentile = clamped
	return nil
}

type YearExposure struct {
	Year          int    `json:"year"`
	ExposureLevel string `json:"exposure_level"`
	Headline      string `json:"headline"`
	KeyChange     string `json:"key_change"`
}

type TaskItem struct {
	Task   string `json:"task"`
	Reason string `json:"reason"`
}

type AISimulationPayload struct {
	Summary     string         `json:"summary"`
	Years       []YearExposure `json:"years"`
	TasksAtRisk []TaskItem     `json:"tasks_at_risk"`
	TasksSafe   []TaskItem     `json:"tasks_safe"`
}

func (p *AISimulationPayload) Validate() error {
	if len(p.Years) != 3 {
		return errors.New("simulation must contain exactly 3 years")
	}
	return nil
}
