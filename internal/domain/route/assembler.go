package route

import (
	"time"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

// assembleRoute attaches timestamps, per-leg distances and geometry to the
// schedule. Arrival is previous leave plus travel plus padding; leave is
// arrival plus the visit band. Coffee stops stay in both the stop list and
// the geometry.
func assembleRoute(
	startTime time.Time,
	start types.GeoPoint,
	entries []scheduleEntry,
	feasible bool,
	geometry [][2]float64,
	notes []types.RouteNote,
) types.Route {
	totalKm, totalMinutes := scheduleTotals(entries)

	stops := make([]types.RouteStop, 0, len(entries))
	cursor := startTime
	for i, e := range entries {
		arrival := cursor.Add(minutesToDuration(e.legMinutes + e.padMinutes))
		leave := arrival.Add(minutesToDuration(e.visitMinutes))

		stop := types.RouteStop{
			Order:                  i + 1,
			Latitude:               e.point.Latitude,
			Longitude:              e.point.Longitude,
			ArrivalTime:            arrival,
			LeaveTime:              leave,
			VisitMinutes:           e.visitMinutes,
			DistanceFromPreviousKm: e.legKm,
		}
		if e.isBreak() {
			stop.Name = e.spot.Name
			stop.Category = "cafe"
			stop.IsCoffeeBreak = true
		} else {
			stop.POIID = e.poi.ID
			stop.Name = e.poi.Name
			stop.Category = e.poi.Category
		}
		stops = append(stops, stop)
		cursor = leave
	}

	if len(geometry) == 0 {
		geometry = straightLineGeometry(start, entries)
	}

	return types.Route{
		Stops:           stops,
		TotalDistanceKm: totalKm,
		TotalMinutes:    totalMinutes,
		Feasible:        feasible,
		Geometry:        geometry,
		Notes:           notes,
	}
}

func minutesToDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}

// straightLineGeometry draws segments through the start and every stop.
func straightLineGeometry(start types.GeoPoint, entries []scheduleEntry) [][2]float64 {
	geometry := make([][2]float64, 0, len(entries)+1)
	geometry = append(geometry, [2]float64{start.Latitude, start.Longitude})
	for _, e := range entries {
		geometry = append(geometry, [2]float64{e.point.Latitude, e.point.Longitude})
	}
	return geometry
}
