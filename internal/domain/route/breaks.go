package route

import (
	"context"
	"log/slog"

	"github.com/FACorreiaa/loci-route-engine/internal/places"
	"github.com/FACorreiaa/loci-route-engine/internal/routing"
	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

// breakMinutes is the fixed visit band one coffee break consumes.
const breakMinutes = 15

// scheduleEntry is one itinerary row before timestamps are attached. POI
// entries carry the candidate; break entries carry the resolved cafe.
type scheduleEntry struct {
	poi          *types.POI
	spot         *types.CoffeeSpot
	point        types.GeoPoint
	legKm        float64
	legMinutes   float64
	padMinutes   float64
	visitMinutes float64
}

func (e scheduleEntry) isBreak() bool { return e.spot != nil }

// buildSchedule turns an evaluated route into schedule entries. Transition
// padding lands on arrival at every stop after the first, matching the
// evaluator arithmetic exactly.
func buildSchedule(ev evaluatedRoute, cands []types.POI, profile types.IntensityProfile) []scheduleEntry {
	entries := make([]scheduleEntry, 0, len(ev.seq.order))
	for i, rank := range ev.seq.order {
		poi := cands[rank]
		pad := 0.0
		if i > 0 {
			pad = float64(profile.TransitionPaddingMinutes)
		}
		entries = append(entries, scheduleEntry{
			poi:          &poi,
			point:        poi.Location(),
			legKm:        ev.seq.legs[i].DistanceKm,
			legMinutes:   ev.seq.legs[i].DurationMinutes,
			padMinutes:   pad,
			visitMinutes: ev.visitMinutes[i],
		})
	}
	return entries
}

// scheduleTotals sums distance and minutes over the schedule, breaks included.
func scheduleTotals(entries []scheduleEntry) (km, minutes float64) {
	for _, e := range entries {
		km += e.legKm
		minutes += e.legMinutes + e.padMinutes + e.visitMinutes
	}
	return km, minutes
}

// insertCoffeeBreaks walks the schedule accumulating activity minutes
// (walking, padding and visits; break sitting time does not count) and
// inserts a cafe stop whenever reaching the next entry would cross the armed
// threshold. The cafe is looked up near the previous position; its detour
// legs are straight-line estimates since cafes are not matrix nodes. A failed
// or empty lookup skips that break and re-arms the threshold one interval
// later, the route itself is never blocked. At most one break lands before
// any given stop. Returns the new schedule, the number of breaks inserted and
// whether any break was skipped.
func insertCoffeeBreaks(
	ctx context.Context,
	provider places.Provider,
	start types.GeoPoint,
	entries []scheduleEntry,
	prefs types.CoffeePreferences,
	logger *slog.Logger,
) ([]scheduleEntry, int, bool) {
	if !prefs.Enabled || prefs.IntervalMinutes <= 0 {
		return entries, 0, false
	}

	interval := float64(prefs.IntervalMinutes)
	out := make([]scheduleEntry, 0, len(entries)+2)

	activity := 0.0
	threshold := interval
	inserted := 0
	skipped := false
	prevPoint := start

	for _, e := range entries {
		if activity+e.legMinutes+e.padMinutes > threshold {
			spot, err := provider.FindCoffeeSpot(ctx, prevPoint, prefs)
			if err != nil {
				logger.WarnContext(ctx, "cafe lookup failed, skipping break", slog.Any("error", err))
			}
			if spot == nil {
				skipped = true
				threshold += interval
			} else {
				breakLeg := routing.EstimateLeg(prevPoint, spot.Location())
				out = append(out, scheduleEntry{
					spot:         spot,
					point:        spot.Location(),
					legKm:        breakLeg.DistanceKm,
					legMinutes:   breakLeg.DurationMinutes,
					visitMinutes: breakMinutes,
				})
				inserted++
				activity += breakLeg.DurationMinutes
				threshold = activity + interval
				prevPoint = spot.Location()

				nextLeg := routing.EstimateLeg(prevPoint, e.point)
				e.legKm = nextLeg.DistanceKm
				e.legMinutes = nextLeg.DurationMinutes
			}
		}

		out = append(out, e)
		activity += e.legMinutes + e.padMinutes + e.visitMinutes
		prevPoint = e.point
	}

	return out, inserted, skipped
}
