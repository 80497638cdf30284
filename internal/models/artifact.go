package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Premium artifact kinds.
const (
	ArtifactProtectionPlan   = "protection_plan"
	ArtifactSalaryProjection = "salary_projection"
	ArtifactMarketComparison = "market_comparison"
	ArtifactAISimulation     = "ai_simulation"
)

// PremiumArtifact caches the output of one expensive generation call,
// keyed by (user key, analysis, kind). The unique index is what makes the
// generation cache at-most-once: a second request for the same triple
// returns the stored payload instead of re-invoking the generator.
// Rows are created lazily and never mutated or deleted.
type PremiumArtifact struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserKey    string         `gorm:"not null;size:255;uniqueIndex:idx_artifacts_user_analysis_kind" json:"user_key"`
	AnalysisID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_artifacts_user_analysis_kind" json:"analysis_id"`
	Kind       string         `gorm:"not null;size:50;uniqueIndex:idx_artifacts_user_analysis_kind" json:"kind"`
	Payload    datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
