// Package scope contains the pure business logic for abstraction scope:
// the per-tier default tables, inheritance along the abstraction ladder,
// and scope-creep detection. No I/O happens here.
package scope

import (
	"fmt"

	"github.com/example/plank/internal/models"
)

// defaults is the canonical scope template per tier.
var defaults = map[models.Tier]models.Scope{
	models.TierFeature: {
		Level:            models.TierFeature,
		Abstraction:      models.AbstractionHigh,
		DetailLevel:      models.DetailHighLevel,
		AllowedDetails:   []string{"objectives", "phases", "milestones"},
		ForbiddenDetails: []string{"implementation", "specific_technologies", "code"},
	},
	models.TierPhase: {
		Level:            models.TierPhase,
		Abstraction:      models.AbstractionMediumHigh,
		DetailLevel:      models.DetailFocused,
		AllowedDetails:   []string{"objectives", "sessions", "dependencies", "high_level_tasks"},
		ForbiddenDetails: []string{"implementation_details", "specific_apis", "code_snippets"},
	},
	models.TierSession: {
		Level:            models.TierSession,
		Abstraction:      models.AbstractionMedium,
		DetailLevel:      models.DetailFocused,
		AllowedDetails:   []string{"objectives", "tasks", "dependencies", "approach"},
		ForbiddenDetails: []string{"specific_code", "detailed_implementation_steps"},
	},
	models.TierTask: {
		Level:            models.TierTask,
		Abstraction:      models.AbstractionLow,
		DetailLevel:      models.DetailGranular,
		AllowedDetails:   []string{"all"},
		ForbiddenDetails: []string{},
	},
}

// Default returns the canonical scope template for a tier.
func Default(tier models.Tier) models.Scope {
	return defaults[tier].Clone()
}

// Inherit derives a child scope from its parent's. The result starts from
// the child tier's default, records the parent as InheritedFrom, and sets
// abstraction one ladder step more detailed than the parent's, without
// skipping steps, capped at the low floor, and never above the child
// tier's own ceiling.
func Inherit(parent models.Scope, parentID string, childTier models.Tier) models.Scope {
	s := Default(childTier)
	s.InheritedFrom = parentID

	rung := parent.Abstraction.Rung() + 1
	if rung > len(models.AbstractionLadder)-1 {
		rung = len(models.AbstractionLadder) - 1
	}
	if ceiling := s.Abstraction.Rung(); rung < ceiling {
		rung = ceiling
	}
	s.Abstraction = models.AbstractionLadder[rung]
	return s
}

// ValidationResult is the outcome of a scope validation pass.
type ValidationResult struct {
	Valid      bool
	Errors     []string
	Violations []models.ScopeViolation
}

// Validate checks the structural scope invariants and folds in creep
// detection. It never mutates the record.
func Validate(rec *models.Record) ValidationResult {
	res := ValidationResult{Valid: true}

	if rec.Scope == nil {
		res.Valid = false
		res.Errors = append(res.Errors, "record has no scope assigned")
		return res
	}
	if rec.Scope.Level != rec.Tier {
		res.Valid = false
		res.Errors = append(res.Errors,
			fmt.Sprintf("scope level %s does not match record tier %s", rec.Scope.Level, rec.Tier))
	}
	if want := defaults[rec.Tier].Abstraction; rec.Scope.Abstraction != want {
		res.Valid = false
		res.Errors = append(res.Errors,
			fmt.Sprintf("scope abstraction %s does not match tier expectation %s", rec.Scope.Abstraction, want))
	}

	res.Violations = DetectCreep(rec)
	if len(res.Violations) > 0 {
		res.Valid = false
	}
	return res
}
