// Package validation defines the shared report contract produced by the
// bundle and discount validators and consumed by the form layer.
package validation

// Report maps a field path to a human-readable violation message.
// It is recomputed from scratch on every draft change and carries no
// memory of previous states.
type Report struct {
	Violations map[string]string `json:"violations"`
}

// NewReport returns an empty report.
func NewReport() Report {
	return Report{Violations: make(map[string]string)}
}

// Add records a violation against a field path. A second violation on
// the same field replaces the first; validators are expected to report
// the most specific message.
func (r *Report) Add(field, message string) {
	if r.Violations == nil {
		r.Violations = make(map[string]string)
	}
	r.Violations[field] = message
}

// Merge copies all violations from other into r.
func (r *Report) Merge(other Report) {
	for field, msg := range other.Violations {
		r.Add(field, msg)
	}
}

// Valid reports whether the draft passed every check.
func (r Report) Valid() bool {
	return len(r.Violations) == 0
}
