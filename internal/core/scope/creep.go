package scope

import (
	"regexp"

	"github.com/example/plank/internal/models"
)

// categoryMatchers maps each forbidden-detail category to its pattern
// family. New categories plug in here without touching the detection
// algorithm.
var categoryMatchers = map[string][]*regexp.Regexp{
	"implementation": {
		regexp.MustCompile(`(?i)\bimplement(s|ed|ing|ation)?\b`),
		regexp.MustCompile(`(?i)\brefactor(s|ed|ing)?\b`),
	},
	"specific_technologies": {
		regexp.MustCompile(`(?i)\b(postgres(ql)?|mysql|sqlite|redis|kafka|rabbitmq|react|vue|angular|kubernetes|docker|terraform|graphql|grpc)\b`),
	},
	"code": {
		regexp.MustCompile("```[\\s\\S]*?```"),
		regexp.MustCompile(`(?i)\b(function|class|func|def|struct|interface)\b`),
	},
	"implementation_details": {
		regexp.MustCompile(`(?i)\b(algorithm|data structure|schema|index|mutex|goroutine|pointer)\b`),
	},
	"specific_apis": {
		regexp.MustCompile(`(?i)\b(GET|POST|PUT|PATCH|DELETE)\s+/\S+`),
		regexp.MustCompile(`\b\w+\(\)`),
	},
	"code_snippets": {
		regexp.MustCompile("```[\\s\\S]*?```"),
		regexp.MustCompile("`[^`\n]+`"),
	},
	"specific_code": {
		regexp.MustCompile("```[\\s\\S]*?```"),
		regexp.MustCompile(`(?i)\b(function|class|func|def|var|const|return)\b`),
	},
	"detailed_implementation_steps": {
		regexp.MustCompile(`(?i)\b(first|second|third|then|next|finally|afterwards)\b[,:]?\s`),
		regexp.MustCompile(`(?i)\bstep\s+\d+\b`),
	},
}

// midTierMarkers flag abstraction violations on high-abstraction records:
// a tier keyword co-occurring with an action verb reads like mid-tier text.
var (
	tierKeywordRe = regexp.MustCompile(`(?i)\b(session|task|subtask)\b`)
	actionVerbRe  = regexp.MustCompile(`(?i)\b(implement|write|code|debug|fix|install|configure|wire)\b`)
)

// granularMarkers flag detail-level violations on high-level records.
var granularMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(first|second|third|then|next|finally)\b[,:]?\s`),
	regexp.MustCompile(`(?i)\bstep\s+\d+\b`),
	regexp.MustCompile("```[\\s\\S]*?```"),
	regexp.MustCompile("`[^`\n]+`"),
}

// DetectCreep scans a record's title and description against the scope's
// forbidden-detail categories and abstraction markers. Detection is pure
// and idempotent: two calls on unchanged text yield identical lists.
func DetectCreep(rec *models.Record) []models.ScopeViolation {
	if rec.Scope == nil {
		return nil
	}

	var out []models.ScopeViolation
	locations := []struct {
		name string
		text string
	}{
		{models.LocationTitle, rec.Title},
		{models.LocationDescription, rec.Description},
	}

	for _, category := range rec.Scope.ForbiddenDetails {
		matchers, ok := categoryMatchers[category]
		if !ok {
			continue
		}
		for _, loc := range locations {
			for _, re := range matchers {
				if m := re.FindString(loc.text); m != "" {
					out = append(out, models.ScopeViolation{
						Type:        models.ViolationForbiddenDetail,
						DetailType:  category,
						Location:    loc.name,
						Match:       m,
						Description: "forbidden detail category '" + category + "' present in " + loc.name,
						Severity:    models.SeverityMedium,
					})
					break // one violation per category and location
				}
			}
		}
	}

	rung := rec.Scope.Abstraction.Rung()
	if rung >= 0 && rung <= models.AbstractionMediumHigh.Rung() {
		for _, loc := range locations {
			if kw := tierKeywordRe.FindString(loc.text); kw != "" {
				if verb := actionVerbRe.FindString(loc.text); verb != "" {
					out = append(out, models.ScopeViolation{
						Type:        models.ViolationAbstraction,
						Location:    loc.name,
						Match:       kw + " + " + verb,
						Description: "high-abstraction record contains mid-tier markers in " + loc.name,
						Severity:    models.SeverityMedium,
					})
				}
			}
		}
	}

	if rec.Scope.DetailLevel == models.DetailHighLevel {
		for _, loc := range locations {
			for _, re := range granularMarkers {
				if m := re.FindString(loc.text); m != "" {
					out = append(out, models.ScopeViolation{
						Type:        models.ViolationDetailLevel,
						Location:    loc.name,
						Match:       m,
						Description: "high-level record contains granular markers in " + loc.name,
						Severity:    models.SeverityLow,
					})
					break
				}
			}
		}
	}

	return out
}

// Redact replaces every span in text matched by the category's pattern
// family with a redaction placeholder. Used by auto-mode enforcement; the
// replacement is a best-effort textual placeholder and may alter meaning.
func Redact(text, category string) string {
	matchers, ok := categoryMatchers[category]
	if !ok {
		return text
	}
	placeholder := "[redacted:" + category + "]"
	for _, re := range matchers {
		text = re.ReplaceAllString(text, placeholder)
	}
	return text
}
