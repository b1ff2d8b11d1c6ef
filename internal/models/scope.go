package models

// Abstraction is the abstraction rung attached to a record's scope.
type Abstraction string

// Abstraction ladder, highest (least detail) first.
const (
	AbstractionHigh       Abstraction = "high"
	AbstractionMediumHigh Abstraction = "medium-high"
	AbstractionMedium     Abstraction = "medium"
	AbstractionLow        Abstraction = "low"
)

// AbstractionLadder lists the rungs in order of increasing detail.
var AbstractionLadder = []Abstraction{
	AbstractionHigh,
	AbstractionMediumHigh,
	AbstractionMedium,
	AbstractionLow,
}

// Rung returns the ladder index of a (0=high .. 3=low), or -1 if unknown.
func (a Abstraction) Rung() int {
	for i, r := range AbstractionLadder {
		if r == a {
			return i
		}
	}
	return -1
}

// Detail level constants
const (
	DetailHighLevel = "high-level"
	DetailFocused   = "focused"
	DetailGranular  = "granular"
)

// Scope is the per-record abstraction contract. Level always equals the
// owning record's tier; abstraction is monotonically non-increasing in
// detail as the tier deepens.
type Scope struct {
	Level            Tier
	Abstraction      Abstraction
	DetailLevel      string
	AllowedDetails   []string
	ForbiddenDetails []string
	InheritedFrom    string
}

// Clone returns a copy with detached slices.
func (s Scope) Clone() Scope {
	c := s
	c.AllowedDetails = append([]string(nil), s.AllowedDetails...)
	c.ForbiddenDetails = append([]string(nil), s.ForbiddenDetails...)
	return c
}

// Scope violation type constants
const (
	ViolationForbiddenDetail = "forbidden_detail"
	ViolationAbstraction     = "abstraction_violation"
	ViolationDetailLevel     = "detail_level_violation"
)

// Violation location constants
const (
	LocationTitle       = "title"
	LocationDescription = "description"
)

// ScopeViolation is one detected breach of a record's scope contract.
// Match holds the exact text span that triggered the violation and is used
// by auto-mode enforcement to redact descriptions.
type ScopeViolation struct {
	Type        string
	DetailType  string
	Location    string
	Match       string
	Description string
	Severity    string
}
