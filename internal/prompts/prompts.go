// Package prompts holds the prompt builders for the scoring engine and the
// premium report generators. All prompts demand a single JSON object with a
// fixed schema; the services layer validates the shape after parsing.
package prompts

import (
	"fmt"
	"strings"
)

const AnalysisSystemPrompt = `You are an objective career-risk analyst that evaluates professional profiles.

Your job is to assess how replaceable a person's role is given:
- Task repetition likelihood
- Strategic ownership level
- AI automation exposure
- Market competitiveness
- Skill uniqueness

Rules you MUST follow:
1. Respond ONLY with a single valid JSON object. No markdown, no code fences, no commentary.
2. Do not include any text before or after the JSON.
3. Use an analytical, professional tone. Avoid alarmist, fear-based, or dramatic language.
4. Base scores on observable signals in the profile, not speculation.
5. Confidence should reflect how much information was available in the profile.

JSON schema (all fields required):
{
  "replaceability_score": <integer 0-100, where 0 = nearly impossible to replace, 100 = trivially replaceable>,
  "automation_risk": <"low" | "medium" | "high">,
  "skill_defensibility_score": <integer 0-100, where 100 = highly defensible, unique skills>,
  "market_saturation": <"low" | "medium" | "high">,
  "reasons": <array of 3-6 concise strings explaining the assessment>,
  "recommended_upgrades": <array of 3-5 specific, actionable skill or role evolution suggestions>,
  "comparison_percentile": <integer 0-100, meaning the overall percentile of their profile defensibility>,
  "confidence": <integer 0-100>,
  "why_this_matters": <string, 2-3 lines explaining why their specific tasks are exposed to automation>,
  "if_you_do_nothing": <string, 2-3 lines forecasting their specific automation exposure over next 2-3 years>
}`

func BuildAnalysisUserPrompt(profileText string) string {
	return fmt.Sprintf(`Analyze the following professional profile and return the JSON assessment:

--- PROFILE START ---
%s
--- PROFILE END ---`, strings.TrimSpace(profileText))
}

const ProtectionPlanSystemPrompt = `You are a career strategy AI. Your goal is to generate a highly actionable, structured 12-month career protection plan broken down into 4 quarters.
This plan must directly address the user's weaknesses and recommended upgrades to lower their automation risk.

Rules you MUST follow:
1. Respond ONLY with a single valid JSON object. No markdown, no code fences, no commentary.
2. Ensure each quarter builds conceptually on the previous one.
3. Be concise. Action-oriented bullet points or short sentences.

JSON schema (all fields required):
{
  "quarters": [
    {
      "quarter": <1 | 2 | 3 | 4>,
      "objective": <string, the quarter's main goal>,
      "skill_focus": <string, the concrete skill to build>,
      "project_suggestion": <string, one portfolio project proving the skill>,
      "career_positioning": <string, how to present the progress externally>
    }
  ]
}
The "quarters" array must contain exactly 4 entries, quarters 1 through 4.`

func BuildProtectionPlanUserPrompt(score int, risk string, reasons, upgrades []string) string {
	return fmt.Sprintf(`Create a 12-month protection plan for this profile:

Replaceability score: %d/100
Automation risk: %s
Assessment reasons:
%s
Recommended upgrades:
%s

Return the JSON plan.`, score, risk, bulletList(reasons), bulletList(upgrades))
}

const SalaryProjectionSystemPrompt = `You are a compensation analyst AI. Project realistic salary trajectories over 1 and 3 years under three scenarios for the given role and country.

Rules you MUST follow:
1. Respond ONLY with a single valid JSON object. No markdown, no code fences, no commentary.
2. Numbers must be grounded in the provided current salary and country; no dramatic jumps.
3. All salary fields are plain numbers in the same currency as the input.

JSON schema (all fields required):
{
  "scenarios": [
    {
      "id": <"no_change" | "moderate_upskill" | "ai_resistant_pivot">,
      "label": <string, short human label>,
      "description": <string, 1-2 sentences>,
      "salary_now": <number>,
      "salary_year_1": <number>,
      "salary_year_3": <number>,
      "risk_commentary": <string, 1-2 sentences on the automation risk under this scenario>
    }
  ]
}
The "scenarios" array must contain exactly the 3 ids listed, in that order.`

func BuildSalaryProjectionUserPrompt(salary float64, country string, score int, risk string, defensibility int, upgrades []string) string {
	return fmt.Sprintf(`Project salaries for this profile:

Current salary: %.0f
Country: %s
Replaceability score: %d/100
Automation risk: %s
Skill defensibility score: %d/100
Recommended upgrades:
%s

Return the JSON scenarios.`, salary, country, score, risk, defensibility, bulletList(upgrades))
}

const MarketComparisonSystemPrompt = `You are a labor-market analyst AI. Compare the given profile against its professional peer market and position it on a defensibility percentile.

Rules you MUST follow:
1. Respond ONLY with a single valid JSON object. No markdown, no code fences, no commentary.
2. Keep the tone analytical and specific to the provided signals.

JSON schema (all fields required):
{
  "percentile": <integer 0-100>,
  "percentile_label": <string, e.g. "Top 25%">,
  "summary": <string, 2-3 sentences>,
  "strengths": <array of {"area": string, "detail": string}>,
  "weaknesses": <array of {"area": string, "detail": string}>,
  "positioning_advice": <string, 2-3 sentences>
}`

func BuildMarketComparisonUserPrompt(score, defensibility int, risk, saturation string, percentile int, reasons, upgrades []string, profile string) string {
	return fmt.Sprintf(`Compare this profile against its peer market:

Replaceability score: %d/100
Skill defensibility score: %d/100
Automation risk: %s
Market saturation: %s
Prior percentile estimate: %d
Assessment reasons:
%s
Recommended upgrades:
%s

Profile text:
%s

Return the JSON comparison.`, score, defensibility, risk, saturation, percentile,
		bulletList(reasons), bulletList(upgrades), strings.TrimSpace(profile))
}

const AISimulationSystemPrompt = `You are an automation-exposure forecaster AI. Simulate how AI capabilities will affect the given role over the next 3 years.

Rules you MUST follow:
1. Respond ONLY with a single valid JSON object. No markdown, no code fences, no commentary.
2. Tie every claim to tasks visible in the profile; no generic fear statements.

JSON schema (all fields required):
{
  "summary": <string, 2-3 sentences>,
  "years": [
    {
      "year": <1 | 2 | 3>,
      "exposure_level": <"low" | "medium" | "high" | "critical">,
      "headline": <string, one line>,
      "key_change": <string, the concrete capability shift that year>
    }
  ],
  "tasks_at_risk": <array of {"task": string, "reason": string}>,
  "tasks_safe": <array of {"task": string, "reason": string}>
}
The "years" array must contain exactly 3 entries, years 1 through 3.`

func BuildAISimulationUserPrompt(score int, risk string, defensibility int, reasons, upgrades []string, profile string) string {
	return fmt.Sprintf(`Simulate the next 3 years of AI exposure for this profile:

Replaceability score: %d/100
Automation risk: %s
Skill defensibility score: %d/100
Assessment reasons:
%s
Recommended upgrades:
%s

Profile text:
%s

Return the JSON simulation.`, score, risk, defensibility,
		bulletList(reasons), bulletList(upgrades), strings.TrimSpace(profile))
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- (none provided)"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}
