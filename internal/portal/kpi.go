// ABOUTME: Read-only projections of a snapshot used by the dashboard.
// ABOUTME: Program-wide KPI totals, top campus, and the top reps by sign-ups.

package portal

import "sort"

// KPIs are the headline numbers of the overview cards.
type KPIs struct {
	TotalReps    int    `json:"total_reps"`
	TotalSignups int    `json:"total_signups"`
	TotalEvents  int    `json:"total_events"`
	TopCampus    string `json:"top_campus"`
}

// ComputeKPIs sums the campus table. Campuses must already be sorted by
// sign-ups descending; the first row is the top campus.
func ComputeKPIs(campuses []CampusAggregate) KPIs {
	var k KPIs
	for _, c := range campuses {
		k.TotalReps += c.NumReps
		k.TotalSignups += c.SignupsLast30d
		k.TotalEvents += c.EventsCreatedLast30d
	}
	if len(campuses) > 0 {
		k.TopCampus = campuses[0].University
	}
	return k
}

// KPIs is shorthand for ComputeKPIs(s.Campuses).
func (s *Snapshot) KPIs() KPIs {
	return ComputeKPIs(s.Campuses)
}

// TopReps returns up to n reps ordered by sign-ups descending. Ties keep roster order.
// The input slice is not modified.
func TopReps(reps []Representative, n int) []Representative {
	sorted := make([]Representative, len(reps))
	copy(sorted, reps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SignupsLast30d > sorted[j].SignupsLast30d
	})
	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
