// Package filter implements the record matching engine.
//
// Matching happens before normalization, so date bounds are compared
// against the raw timestamp representation of the candidate record.
package filter

import "social_analytics/internal/model"

// Candidate is the raw view of a record that the filter evaluates.
type Candidate struct {
	Timestamp string
	Hashtags  []string
}

// Matches checks whether a candidate record passes the given filter spec.
// Date bounds are inclusive and compared lexicographically against the raw
// timestamp. The hashtag filter requires at least one shared tag; an empty
// filter set imposes no constraint. Platform gating is the caller's job.
func Matches(c Candidate, spec model.FilterSpec) bool {
	if spec.StartDate != "" && c.Timestamp < spec.StartDate {
		return false
	}
	if spec.EndDate != "" && c.Timestamp > spec.EndDate {
		return false
	}
	if len(spec.Hashtags) > 0 && !intersects(c.Hashtags, spec.Hashtags) {
		return false
	}
	return true
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
