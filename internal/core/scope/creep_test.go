package scope

import (
	"reflect"
	"strings"
	"testing"

	"github.com/example/plank/internal/models"
)

func featureRecord(title, description string) *models.Record {
	sc := Default(models.TierFeature)
	return &models.Record{
		ID:          "feat-1",
		Tier:        models.TierFeature,
		Title:       title,
		Description: description,
		Scope:       &sc,
	}
}

func TestDetectCreep_ForbiddenCategories(t *testing.T) {
	tests := []struct {
		name         string
		description  string
		wantCategory string
	}{
		{
			name:         "implementation verb",
			description:  "We will implement the service next quarter",
			wantCategory: "implementation",
		},
		{
			name:         "named technology",
			description:  "Store sessions in Redis for fast lookups",
			wantCategory: "specific_technologies",
		},
		{
			name:         "code keyword",
			description:  "Add a struct that models user sessions",
			wantCategory: "code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := featureRecord("Clean title", tt.description)
			got := DetectCreep(rec)

			found := false
			for _, v := range got {
				if v.Type == models.ViolationForbiddenDetail && v.DetailType == tt.wantCategory {
					found = true
					if v.Location != models.LocationDescription {
						t.Errorf("violation Location = %s, want description", v.Location)
					}
					if v.Match == "" {
						t.Error("violation Match is empty")
					}
				}
			}
			if !found {
				t.Errorf("DetectCreep() = %+v, want a %s violation", got, tt.wantCategory)
			}
		})
	}
}

func TestDetectCreep_OneViolationPerCategoryAndLocation(t *testing.T) {
	// Repeated matches of one category in one location collapse to a
	// single violation.
	rec := featureRecord("Clean title", "Implement this, implement that, and implement more")
	got := DetectCreep(rec)

	count := 0
	for _, v := range got {
		if v.DetailType == "implementation" && v.Location == models.LocationDescription {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d implementation violations in description, want 1", count)
	}
}

func TestDetectCreep_AbstractionViolation(t *testing.T) {
	// A high-abstraction record reading like mid-tier text: tier keyword
	// plus action verb.
	rec := featureRecord("Clean title", "In the first session we will debug the importer")
	got := DetectCreep(rec)

	found := false
	for _, v := range got {
		if v.Type == models.ViolationAbstraction {
			found = true
		}
	}
	if !found {
		t.Errorf("DetectCreep() = %+v, want an abstraction violation", got)
	}
}

func TestDetectCreep_AbstractionAppliesOnlyToHighRungs(t *testing.T) {
	sc := Default(models.TierTask)
	rec := &models.Record{
		ID: "task-1", Tier: models.TierTask, Scope: &sc,
		Title:       "Debug session importer",
		Description: "Fix the session parsing and write a regression test",
	}
	got := DetectCreep(rec)

	for _, v := range got {
		if v.Type == models.ViolationAbstraction {
			t.Errorf("low-abstraction record flagged with abstraction violation: %+v", v)
		}
	}
}

func TestDetectCreep_DetailLevelViolation(t *testing.T) {
	// Fenced code on a high-level record.
	rec := featureRecord("Clean title", "Overview first.\n```\nSELECT 1;\n```")
	got := DetectCreep(rec)

	found := false
	for _, v := range got {
		if v.Type == models.ViolationDetailLevel {
			found = true
			if v.Severity != models.SeverityLow {
				t.Errorf("detail-level violation Severity = %s, want low", v.Severity)
			}
		}
	}
	if !found {
		t.Errorf("DetectCreep() = %+v, want a detail-level violation", got)
	}
}

func TestDetectCreep_FocusedPhaseAllowsSequencing(t *testing.T) {
	// A phase is focused, not high-level: sequencing words alone are fine,
	// but a fenced code block still trips the code_snippets category.
	sc := Default(models.TierPhase)
	rec := &models.Record{
		ID: "phase-1", Tier: models.TierPhase, Scope: &sc,
		Title:       "Rollout planning",
		Description: "Ship to staging, then production",
	}
	for _, v := range DetectCreep(rec) {
		if v.Type == models.ViolationDetailLevel {
			t.Errorf("focused record flagged with detail-level violation: %+v", v)
		}
	}

	rec.Description = "Rollout steps:\n```\nkubectl apply -f rollout.yaml\n```"
	got := DetectCreep(rec)
	found := false
	for _, v := range got {
		if v.DetailType == "code_snippets" {
			found = true
		}
	}
	if !found {
		t.Errorf("DetectCreep() = %+v, want a code_snippets violation for fenced code", got)
	}
}

func TestDetectCreep_TaskIsUnconstrained(t *testing.T) {
	sc := Default(models.TierTask)
	rec := &models.Record{
		ID: "task-1", Tier: models.TierTask, Scope: &sc,
		Title:       "Wire the retry loop",
		Description: "Implement retries:\n```\nfor i := 0; i < 3; i++ { ... }\n```",
	}
	if got := DetectCreep(rec); len(got) != 0 {
		t.Errorf("DetectCreep() on task = %+v, want none", got)
	}
}

func TestDetectCreep_Idempotent(t *testing.T) {
	rec := featureRecord("Implement auth", "Use Postgres and Redis, then write a struct")

	first := DetectCreep(rec)
	second := DetectCreep(rec)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("DetectCreep() not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestRedact(t *testing.T) {
	got := Redact("We will implement the service", "implementation")
	if strings.Contains(strings.ToLower(got), "implement") {
		t.Errorf("Redact() = %q, still contains the match", got)
	}
	if !strings.Contains(got, "[redacted:implementation]") {
		t.Errorf("Redact() = %q, missing placeholder", got)
	}

	// Unknown categories leave text untouched.
	if got := Redact("anything", "no_such_category"); got != "anything" {
		t.Errorf("Redact() with unknown category = %q, want input unchanged", got)
	}
}

func TestRedactIsStable(t *testing.T) {
	once := Redact("Store data in Redis and Kafka", "specific_technologies")
	twice := Redact(once, "specific_technologies")
	if once != twice {
		t.Errorf("Redact() not stable: %q then %q", once, twice)
	}
}
