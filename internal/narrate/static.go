// ABOUTME: Static digest used when OpenAI is not configured or fails.
// ABOUTME: Builds the headline and highlights directly from snapshot numbers.

package narrate

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/2389/campus-portal/internal/portal"
)

// printer groups integer counts. Percentages go through fmt so rounding matches the dashboard.
var printer = message.NewPrinter(language.English)

// StaticDigest summarizes snap without any external calls. Output depends only on snap.
func StaticDigest(snap *portal.Snapshot) *Digest {
	k := snap.KPIs()
	d := &Digest{
		Headline: printer.Sprintf("%d reps drove %d sign-ups and %d events across %d campuses in the last 30 days.",
			k.TotalReps, k.TotalSignups, k.TotalEvents, len(snap.Campuses)),
		Highlights: []string{},
		Source:     SourceStatic,
	}

	if len(snap.Campuses) > 0 {
		top := snap.Campuses[0]
		d.Highlights = append(d.Highlights,
			printer.Sprintf("Top campus: %s with %d sign-ups from %d reps.", top.University, top.SignupsLast30d, top.NumReps))

		fastest := snap.Campuses[0]
		for _, c := range snap.Campuses[1:] {
			if c.GrowthMoM > fastest.GrowthMoM {
				fastest = c
			}
		}
		d.Highlights = append(d.Highlights,
			fmt.Sprintf("Fastest growing: %s at %+.1f%% month over month.", fastest.University, fastest.GrowthMoM))
	}

	if top := portal.TopReps(snap.Reps, 1); len(top) == 1 {
		d.Highlights = append(d.Highlights,
			printer.Sprintf("Standout rep: %s (%s) with %d sign-ups.", top[0].Name, top[0].University, top[0].SignupsLast30d))
	}

	if n := len(snap.Funnel); n >= 2 && snap.Funnel[0].Value > 0 {
		first, last := snap.Funnel[0], snap.Funnel[n-1]
		d.Highlights = append(d.Highlights,
			printer.Sprintf("Funnel: %d of %d %s reached %s (%s).",
				last.Value, first.Value, first.Stage, last.Stage, percent(last.Value, first.Value)))
	}

	return d
}

func percent(part, whole int) string {
	return fmt.Sprintf("%.1f%%", float64(part)/float64(whole)*100)
}
