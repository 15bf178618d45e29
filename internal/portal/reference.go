// ABOUTME: Fixed reference lists the synthetic portal data is drawn from.
// ABOUTME: Universities with map coordinates, rep names, activity phrases, orgs, funnel stages.

package portal

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyReference is returned when a reference list the generator samples from is empty.
	ErrEmptyReference = errors.New("reference list is empty")
	// ErrFunnelOrder is returned when funnel stage values increase from one stage to the next.
	ErrFunnelOrder = errors.New("funnel values must not increase between stages")
)

// CampusLocation is a reference university and where it sits on the footprint map.
type CampusLocation struct {
	University string  `json:"university"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// FunnelStage is one step of the outreach pipeline.
type FunnelStage struct {
	Stage string `json:"stage"`
	Value int    `json:"value"`
}

// Reference holds every constant list the generator samples from.
type Reference struct {
	Campuses      []CampusLocation
	FirstNames    []string
	LastNames     []string
	Activities    []string
	Organizations []string
	Funnel        []FunnelStage
}

// DefaultReference returns the program's built-in reference data.
// Each call returns fresh slices so callers may modify their copy.
func DefaultReference() Reference {
	return Reference{
		Campuses: []CampusLocation{
			{University: "University of Southern California", Lat: 34.0224, Lon: -118.2851},
			{University: "University of Texas at Austin", Lat: 30.2849, Lon: -97.7341},
			{University: "New York University", Lat: 40.7295, Lon: -73.9965},
			{University: "University of Florida", Lat: 29.6436, Lon: -82.3488},
			{University: "Ohio State University", Lat: 40.0067, Lon: -83.0143},
			{University: "University of Michigan", Lat: 42.2780, Lon: -83.7382},
			{University: "Arizona State University", Lat: 33.4242, Lon: -111.9392},
			{University: "University of Washington", Lat: 47.6553, Lon: -122.3035},
			{University: "Penn State University", Lat: 40.7982, Lon: -77.8599},
			{University: "University of Colorado Boulder", Lat: 40.0076, Lon: -105.2631},
		},
		FirstNames: []string{"Jessica", "David", "Maria", "John", "Sarah", "Michael", "Emily", "Chris", "Laura", "James"},
		LastNames:  []string{"Miller", "Chen", "Garcia", "Smith", "Johnson", "Williams", "Brown", "Jones", "Davis", "Wilson"},
		Activities: []string{
			"just onboarded a new organization:",
			"created a new event:",
			"hit their monthly sign-up bonus!",
			"scheduled a demo with the student government:",
			"is leading a workshop on event planning.",
		},
		Organizations: []string{"Sigma Alpha Mu", "Women in CS", "The Marketing Club", "Delta Gamma", "Engineering Student Council"},
		Funnel: []FunnelStage{
			{Stage: "Orgs Identified", Value: 1200},
			{Stage: "Orgs Contacted", Value: 650},
			{Stage: "Demos Scheduled", Value: 150},
			{Stage: "Orgs Onboarded", Value: 75},
		},
	}
}

// Universities returns the reference university names in map order.
func (r Reference) Universities() []string {
	names := make([]string, len(r.Campuses))
	for i, c := range r.Campuses {
		names[i] = c.University
	}
	return names
}

// Validate reports the first reference list that cannot be sampled from.
func (r Reference) Validate() error {
	lists := []struct {
		name string
		size int
	}{
		{"universities", len(r.Campuses)},
		{"first_names", len(r.FirstNames)},
		{"last_names", len(r.LastNames)},
		{"activities", len(r.Activities)},
		{"organizations", len(r.Organizations)},
		{"funnel", len(r.Funnel)},
	}
	for _, l := range lists {
		if l.size == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyReference, l.name)
		}
	}

	for i := 1; i < len(r.Funnel); i++ {
		if r.Funnel[i].Value > r.Funnel[i-1].Value {
			return fmt.Errorf("%w: %q (%d) > %q (%d)", ErrFunnelOrder,
				r.Funnel[i].Stage, r.Funnel[i].Value, r.Funnel[i-1].Stage, r.Funnel[i-1].Value)
		}
	}
	return nil
}
