// ABOUTME: Synthetic data generator for the campus growth portal.
// ABOUTME: Samples reps, rolls them up per campus, and builds the activity log, funnel, and map.

package portal

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// ErrInvalidOptions is returned when generator options cannot produce a snapshot.
var ErrInvalidOptions = errors.New("invalid generator options")

// Growth is sampled in percentage points. The leaderboard progress column
// shows it against GrowthDisplayMin..GrowthDisplayMax.
const (
	GrowthMin        = -10.0
	GrowthMax        = 25.0
	GrowthDisplayMin = -25.0
	GrowthDisplayMax = 25.0
)

// Representative is one campus ambassador.
type Representative struct {
	Name                 string `json:"name"`
	University           string `json:"university"`
	SignupsLast30d       int    `json:"signups_last_30d"`
	EventsCreatedLast30d int    `json:"events_created_last_30d"`
}

// CampusAggregate is the per-university rollup of representatives.
// GrowthMoM is sampled independently and is not derived from the other fields.
type CampusAggregate struct {
	University           string  `json:"university"`
	NumReps              int     `json:"num_reps"`
	SignupsLast30d       int     `json:"signups_last_30d"`
	EventsCreatedLast30d int     `json:"events_created_last_30d"`
	GrowthMoM            float64 `json:"growth_mom"`
}

// MapPoint is a reference university with its sign-ups for the footprint map.
type MapPoint struct {
	University     string  `json:"university"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	SignupsLast30d int     `json:"signups_last_30d"`
}

// Snapshot is one generation pass. It is read-only once returned.
type Snapshot struct {
	Reps        []Representative  `json:"reps"`
	Campuses    []CampusAggregate `json:"campuses"`
	ActivityLog []string          `json:"activity_log"`
	Funnel      []FunnelStage     `json:"funnel"`
	MapPoints   []MapPoint        `json:"map_points"`
}

// Options controls the shape of a generated snapshot.
type Options struct {
	NumReps         int
	ActivityEntries int

	// IndependentActivity draws the name and the university of an activity
	// entry from two different reps instead of one.
	IndependentActivity bool
}

// DefaultOptions returns 50 reps and 10 linked activity entries.
func DefaultOptions() Options {
	return Options{
		NumReps:         50,
		ActivityEntries: 10,
	}
}

// Generator produces snapshots from a validated reference.
type Generator struct {
	ref  Reference
	opts Options
}

// NewGenerator validates the reference and options up front so Generate cannot fail.
func NewGenerator(ref Reference, opts Options) (*Generator, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if opts.NumReps <= 0 {
		return nil, fmt.Errorf("%w: num_reps must be positive, got %d", ErrInvalidOptions, opts.NumReps)
	}
	if opts.ActivityEntries <= 0 {
		return nil, fmt.Errorf("%w: activity_entries must be positive, got %d", ErrInvalidOptions, opts.ActivityEntries)
	}
	return &Generator{ref: ref, opts: opts}, nil
}

// Generate builds a snapshot from the default reference and options.
func Generate(rng *rand.Rand) (*Snapshot, error) {
	g, err := NewGenerator(DefaultReference(), DefaultOptions())
	if err != nil {
		return nil, err
	}
	return g.Generate(rng), nil
}

// Reference returns the reference data the generator samples from.
func (g *Generator) Reference() Reference {
	return g.ref
}

// Generate runs one generation pass. All randomness comes from rng.
func (g *Generator) Generate(rng *rand.Rand) *Snapshot {
	reps := g.sampleReps(rng)
	campuses := g.aggregateCampuses(rng, reps)

	funnel := make([]FunnelStage, len(g.ref.Funnel))
	copy(funnel, g.ref.Funnel)

	return &Snapshot{
		Reps:        reps,
		Campuses:    campuses,
		ActivityLog: g.buildActivityLog(rng, reps),
		Funnel:      funnel,
		MapPoints:   g.buildMapPoints(campuses),
	}
}

func (g *Generator) sampleReps(rng *rand.Rand) []Representative {
	reps := make([]Representative, g.opts.NumReps)
	for i := range reps {
		first := pick(rng, g.ref.FirstNames)
		last := pick(rng, g.ref.LastNames)
		reps[i] = Representative{
			Name:                 first + " " + last,
			University:           g.ref.Campuses[rng.Intn(len(g.ref.Campuses))].University,
			SignupsLast30d:       5 + rng.Intn(95),
			EventsCreatedLast30d: rng.Intn(15),
		}
	}
	return reps
}

// aggregateCampuses groups reps by university. Growth is drawn in ascending
// university order, then rows are stably sorted by sign-ups descending.
func (g *Generator) aggregateCampuses(rng *rand.Rand, reps []Representative) []CampusAggregate {
	byUniversity := make(map[string]*CampusAggregate)
	for _, rep := range reps {
		agg, ok := byUniversity[rep.University]
		if !ok {
			agg = &CampusAggregate{University: rep.University}
			byUniversity[rep.University] = agg
		}
		agg.NumReps++
		agg.SignupsLast30d += rep.SignupsLast30d
		agg.EventsCreatedLast30d += rep.EventsCreatedLast30d
	}

	names := make([]string, 0, len(byUniversity))
	for name := range byUniversity {
		names = append(names, name)
	}
	sort.Strings(names)

	campuses := make([]CampusAggregate, 0, len(names))
	for _, name := range names {
		agg := byUniversity[name]
		agg.GrowthMoM = GrowthMin + rng.Float64()*(GrowthMax-GrowthMin)
		campuses = append(campuses, *agg)
	}

	sort.SliceStable(campuses, func(i, j int) bool {
		return campuses[i].SignupsLast30d > campuses[j].SignupsLast30d
	})
	return campuses
}

func (g *Generator) buildActivityLog(rng *rand.Rand, reps []Representative) []string {
	entries := make([]string, g.opts.ActivityEntries)
	for i := range entries {
		rep := reps[rng.Intn(len(reps))]
		name, university := rep.Name, rep.University
		if g.opts.IndependentActivity {
			university = reps[rng.Intn(len(reps))].University
		}

		activity := pick(rng, g.ref.Activities)
		entry := fmt.Sprintf("- %s (%s) %s", name, university, activity)
		if IsOnboarding(activity) {
			entry += " " + pick(rng, g.ref.Organizations)
		}
		entries[i] = entry
	}
	return entries
}

// buildMapPoints left-joins campus sign-ups onto every reference location.
func (g *Generator) buildMapPoints(campuses []CampusAggregate) []MapPoint {
	signups := make(map[string]int, len(campuses))
	for _, c := range campuses {
		signups[c.University] = c.SignupsLast30d
	}

	points := make([]MapPoint, len(g.ref.Campuses))
	for i, loc := range g.ref.Campuses {
		points[i] = MapPoint{
			University:     loc.University,
			Lat:            loc.Lat,
			Lon:            loc.Lon,
			SignupsLast30d: signups[loc.University],
		}
	}
	return points
}

// IsOnboarding reports whether an activity phrase announces a new organization.
func IsOnboarding(activity string) bool {
	return strings.Contains(activity, "onboarded")
}

func pick(rng *rand.Rand, list []string) string {
	return list[rng.Intn(len(list))]
}
