// Package record contains the pure business logic for record operations.
// Guards are pure functions that evaluate preconditions without side effects.
package record

import (
	"fmt"

	"github.com/example/plank/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateContext provides context for record creation guards.
type CreateContext struct {
	Tier         models.Tier
	ParentID     string
	ParentExists bool
	ParentTier   models.Tier // only meaningful when ParentExists
}

// CanCreate evaluates whether a record can be created.
// Rules:
// - Tier must be valid
// - Feature records have no parent; every other tier requires one
// - The parent's tier must be exactly one level above
func CanCreate(ctx CreateContext) GuardResult {
	if !ctx.Tier.Valid() {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown tier %q", ctx.Tier)}
	}

	if ctx.Tier == models.TierFeature {
		if ctx.ParentID != "" {
			return GuardResult{Allowed: false, Reason: "feature records cannot have a parent"}
		}
		return GuardResult{Allowed: true}
	}

	if ctx.ParentID == "" {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("%s records require a parent %s", ctx.Tier, ctx.Tier.Parent())}
	}
	if !ctx.ParentExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("parent %s not found", ctx.ParentID)}
	}
	if ctx.ParentTier != ctx.Tier.Parent() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("parent %s is a %s; %s records require a %s parent", ctx.ParentID, ctx.ParentTier, ctx.Tier, ctx.Tier.Parent()),
		}
	}

	return GuardResult{Allowed: true}
}

// statusTransitions lists the legal record status transitions.
// cancelled is terminal; completed can only be reopened.
var statusTransitions = map[string][]string{
	models.StatusPending:    {models.StatusInProgress, models.StatusBlocked, models.StatusCancelled},
	models.StatusInProgress: {models.StatusCompleted, models.StatusBlocked, models.StatusPending, models.StatusCancelled},
	models.StatusBlocked:    {models.StatusPending, models.StatusInProgress, models.StatusCancelled},
	models.StatusCompleted:  {models.StatusInProgress},
	models.StatusCancelled:  {},
}

// CanTransitionStatus evaluates whether a record may move between statuses.
func CanTransitionStatus(from, to string) GuardResult {
	if !models.ValidStatus(to) {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown status %q", to)}
	}
	if from == to {
		return GuardResult{Allowed: true}
	}
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return GuardResult{Allowed: true}
		}
	}
	return GuardResult{Allowed: false, Reason: fmt.Sprintf("cannot transition record from %s to %s", from, to)}
}
