package dto

import (
	"fmt"
	"strings"
)

// Risk levels used across the scoring schema.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

type AnalyzeRequest struct {
	Profile string `json:"profile"`
}

// AnalysisResult is the structured output of the replaceability scoring
// call. It is validated before anything downstream touches it; the
// validated form is what gets stored on the Analysis row and frozen into
// Reports.
type AnalysisResult struct {
	ReplaceabilityScore     int      `json:"replaceability_score"`
	AutomationRisk          string   `json:"automation_risk"`
	SkillDefensibilityScore int      `json:"skill_defensibility_score"`
	MarketSaturation        string   `json:"market_saturation"`
	Reasons                 []string `json:"reasons"`
	RecommendedUpgrades     []string `json:"recommended_upgrades"`
	ComparisonPercentile    int      `json:"comparison_percentile"`
	Confidence              int      `json:"confidence"`
	WhyThisMatters          string   `json:"why_this_matters,omitempty"`
	IfYouDoNothing          string   `json:"if_you_do_nothing,omitempty"`
}

// Validate checks the result against the scoring schema: integer scores in
// 0-100, risk enums, and 1-10 non-empty reasons/upgrades.
func (r *AnalysisResult) Validate() error {
	var issues []string

	if r.ReplaceabilityScore < 0 || r.ReplaceabilityScore > 100 {
		issues = append(issues, "replaceability_score: must be between 0 and 100")
	}
	if !validRisk(r.AutomationRisk) {
		issues = append(issues, "automation_risk: must be one of low, medium, high")
	}
	if r.SkillDefensibilityScore < 0 || r.SkillDefensibilityScore > 100 {
		issues = append(issues, "skill_defensibility_score: must be between 0 and 100")
	}
	if !validRisk(r.MarketSaturation) {
		issues = append(issues, "market_saturation: must be one of low, medium, high")
	}
	if err := validStringList(r.Reasons); err != "" {
		issues = append(issues, "reasons: "+err)
	}
	if err := validStringList(r.RecommendedUpgrades); err != "" {
		issues = append(issues, "recommended_upgrades: "+err)
	}
	if r.ComparisonPercentile < 0 || r.ComparisonPercentile > 100 {
		issues = append(issues, "comparison_percentile: must be between 0 and 100")
	}
	if r.Confidence < 0 || r.Confidence > 100 {
		issues = append(issues, "confidence: must be between 0 and 100")
	}

	if len(issues) > 0 {
		return fmt.Errorf("validation failed: %s", strings.Join(issues, "; "))
	}
	return nil
}

func validRisk(level string) bool {
	return level == RiskLow || level == RiskMedium || level == RiskHigh
}

func validStringList(list []string) string {
	if len(list) < 1 || len(list) > 10 {
		return "must contain between 1 and 10 entries"
	}
	for _, s := range list {
		if strings.TrimSpace(s) == "" {
			return "entries must be non-empty"
		}
	}
	return ""
}
