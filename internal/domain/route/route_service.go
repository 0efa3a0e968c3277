// Package route builds time-budgeted walking itineraries: it measures travel
// legs, enumerates candidate subsets, sequences them into short walking
// paths, prices them against the usable budget, inserts coffee breaks and
// assembles the final timed route.
package route

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/loci-route-engine/internal/places"
	"github.com/FACorreiaa/loci-route-engine/internal/routing"
	"github.com/FACorreiaa/loci-route-engine/internal/types"
	"github.com/FACorreiaa/loci-route-engine/pkg/observability"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for route construction.
type Service interface {
	// OptimizeRoute builds the best itinerary for the request. It returns an
	// error only for invalid input or a dead context; degraded dependencies
	// and blown budgets surface as route notes instead.
	OptimizeRoute(ctx context.Context, req *types.RouteOptimizationRequest) (*types.RouteOptimizationResponse, error)
	// RouteGeometry resolves a walking polyline through ordered waypoints.
	RouteGeometry(ctx context.Context, req *types.RouteGeometryRequest) (*types.RouteGeometryResponse, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	matrix  *MatrixBuilder
	router  routing.Provider
	places  places.Provider
	metrics *observability.EngineMetrics
}

// NewServiceImpl wires the route service. router and placesProvider may be
// nil when the corresponding upstream is not configured; the engine then
// works entirely on straight-line estimates.
func NewServiceImpl(
	matrix *MatrixBuilder,
	router routing.Provider,
	placesProvider places.Provider,
	metrics *observability.EngineMetrics,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		matrix:  matrix,
		router:  router,
		places:  placesProvider,
		metrics: metrics,
	}
}

func (s *ServiceImpl) OptimizeRoute(ctx context.Context, req *types.RouteOptimizationRequest) (*types.RouteOptimizationResponse, error) {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "OptimizeRoute", trace.WithAttributes(
		attribute.Float64("route.available_hours", req.AvailableHours),
		attribute.String("route.intensity", req.Intensity),
		attribute.Int("route.candidates", len(req.POIs)),
	))
	defer span.End()

	started := time.Now()
	defer func() { s.metrics.OptimizeDuration.Observe(time.Since(started).Seconds()) }()

	l := s.logger.With(slog.String("method", "OptimizeRoute"))

	if err := req.Validate(); err != nil {
		l.WarnContext(ctx, "invalid optimization request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}

	profile, err := types.ProfileFor(types.IntensityLabel(req.Intensity))
	if err != nil {
		return nil, err
	}
	socialMode, err := types.ParseSocialMode(req.SocialMode)
	if err != nil {
		return nil, err
	}

	// Input order is relevance order; the rank survives on the copy so
	// tie-breaks stay deterministic whatever the sequencer does.
	cands := make([]types.POI, len(req.POIs))
	copy(cands, req.POIs)
	for i := range cands {
		cands[i].Rank = i
	}

	mode := routing.ModeWalking
	if req.AllowTransit {
		mode = routing.ModeTransit
	}

	points := make([]types.GeoPoint, 0, len(cands)+1)
	points = append(points, req.Start)
	for _, c := range cands {
		points = append(points, c.Location())
	}

	var notes []types.RouteNote
	matrix := s.matrix.Build(ctx, points, mode)
	if matrix.Degraded {
		s.metrics.MatrixFallbacks.Inc()
		span.AddEvent("distance_matrix_fallback")
		notes = appendNote(notes, types.NoteDistanceFallback,
			"travel times are straight-line estimates at walking speed")
	}

	reducedBudget := req.AvailableHours*60 - float64(profile.SafetyBufferMinutes)
	target := targetStopCount(req.AvailableHours, profile, len(cands))

	best, ok := s.selectRoute(ctx, matrix, cands, profile, target, reducedBudget)
	if !ok {
		err := fmt.Errorf("route enumeration aborted: %w", ctx.Err())
		span.RecordError(err)
		span.SetStatus(codes.Error, "enumeration aborted")
		return nil, err
	}

	entries := buildSchedule(best, cands, profile)

	if req.Coffee.Enabled {
		if s.places == nil {
			notes = appendNote(notes, types.NoteCoffeeSkipped,
				"no places service configured, coffee breaks skipped")
		} else {
			var inserted int
			var skippedAny bool
			entries, inserted, skippedAny = insertCoffeeBreaks(ctx, s.places, req.Start, entries, req.Coffee, l)
			if inserted > 0 {
				s.metrics.CoffeeBreaks.Add(float64(inserted))
				span.SetAttributes(attribute.Int("route.coffee_breaks", inserted))
			}
			if skippedAny {
				notes = appendNote(notes, types.NoteCoffeeSkipped,
					"no cafe matched the preferences near part of the route")
			}
		}
	}

	// Breaks consume budget too, so feasibility is judged on the final
	// schedule rather than the pre-coffee evaluation.
	_, totalMinutes := scheduleTotals(entries)
	feasible := totalMinutes <= reducedBudget
	if !feasible {
		notes = appendNote(notes, types.NoteBudgetExceeded,
			fmt.Sprintf("itinerary exceeds the usable time budget by %.0f minutes", totalMinutes-reducedBudget))
	}

	geometry := s.providerGeometry(ctx, req.Start, entries, mode, l)
	if geometry == nil {
		notes = appendNote(notes, types.NoteGeometryFallback,
			"route geometry is straight line segments between stops")
	}

	startTime := time.Now().UTC()
	if req.StartTime != nil {
		startTime = req.StartTime.UTC()
	}

	route := assembleRoute(startTime, req.Start, entries, feasible, geometry, notes)

	outcome := "ok"
	switch {
	case !feasible:
		outcome = "infeasible"
	case matrix.Degraded:
		outcome = "degraded"
	}
	s.metrics.Optimizations.WithLabelValues(outcome).Inc()

	l.InfoContext(ctx, "route produced",
		slog.Int("stops", len(route.Stops)),
		slog.Bool("feasible", route.Feasible),
		slog.Float64("total_minutes", route.TotalMinutes),
		slog.String("outcome", outcome))
	span.SetAttributes(
		attribute.Int("route.stops", len(route.Stops)),
		attribute.Bool("route.feasible", feasible),
	)
	span.SetStatus(codes.Ok, "route produced")

	return &types.RouteOptimizationResponse{
		Route:      route,
		Intensity:  profile.Label,
		SocialMode: socialMode,
	}, nil
}

// selectRoute walks subset sizes downward from the target, keeping one global
// incumbent under the selection policy. Once any feasible route exists at a
// size, smaller sizes cannot beat it and the walk stops. When nothing fits
// the budget the incumbent is the least-bad overrun across every size tried.
// Returns false only when the context died before a single subset was priced.
func (s *ServiceImpl) selectRoute(
	ctx context.Context,
	matrix *Matrix,
	cands []types.POI,
	profile types.IntensityProfile,
	target int,
	reducedBudget float64,
) (evaluatedRoute, bool) {
	var best evaluatedRoute
	haveBest := false

	for size := target; size >= 1; size-- {
		if ctx.Err() != nil {
			break
		}
		it := newSubsetIterator(len(cands), size)
		foundFeasible := false
		for {
			subset, more := it.next()
			if !more {
				break
			}
			seq := sequenceSubset(matrix, subset)
			ev := evaluateRoute(seq, cands, profile, reducedBudget)
			if !haveBest || betterRoute(ev, best) {
				best = ev
				haveBest = true
			}
			if ev.feasible {
				foundFeasible = true
			}
		}
		if foundFeasible {
			break
		}
	}
	return best, haveBest
}

// providerGeometry asks the routing provider for the real walking polyline
// through the start and every scheduled stop. nil means the caller should
// fall back to straight segments.
func (s *ServiceImpl) providerGeometry(
	ctx context.Context,
	start types.GeoPoint,
	entries []scheduleEntry,
	mode routing.Mode,
	l *slog.Logger,
) [][2]float64 {
	if s.router == nil {
		return nil
	}
	waypoints := make([]types.GeoPoint, 0, len(entries)+1)
	waypoints = append(waypoints, start)
	for _, e := range entries {
		waypoints = append(waypoints, e.point)
	}
	if len(waypoints) < 2 {
		return nil
	}
	result, err := s.router.Directions(ctx, waypoints, mode)
	if err != nil {
		l.WarnContext(ctx, "directions lookup failed, using straight-line geometry", slog.Any("error", err))
		return nil
	}
	return result.Geometry
}

func (s *ServiceImpl) RouteGeometry(ctx context.Context, req *types.RouteGeometryRequest) (*types.RouteGeometryResponse, error) {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "RouteGeometry", trace.WithAttributes(
		attribute.Int("route.waypoints", len(req.Waypoints)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "RouteGeometry"))

	if err := req.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}

	waypoints := make([]types.GeoPoint, 0, len(req.Waypoints)+1)
	waypoints = append(waypoints, req.Start)
	waypoints = append(waypoints, req.Waypoints...)

	if s.router != nil {
		result, err := s.router.Directions(ctx, waypoints, routing.ModeWalking)
		if err == nil {
			span.SetStatus(codes.Ok, "geometry from provider")
			return &types.RouteGeometryResponse{
				Geometry:        result.Geometry,
				TotalDistanceKm: result.DistanceKm,
				DurationMinutes: result.DurationMinutes,
			}, nil
		}
		l.WarnContext(ctx, "directions lookup failed, using straight-line geometry", slog.Any("error", err))
		span.AddEvent("directions_fallback")
	}

	geometry := make([][2]float64, 0, len(waypoints))
	totalKm := 0.0
	for i, w := range waypoints {
		geometry = append(geometry, [2]float64{w.Latitude, w.Longitude})
		if i > 0 {
			totalKm += routing.HaversineKm(waypoints[i-1], w)
		}
	}
	span.SetStatus(codes.Ok, "geometry from straight-line fallback")
	return &types.RouteGeometryResponse{
		Geometry:        geometry,
		TotalDistanceKm: totalKm,
		DurationMinutes: routing.WalkingMinutes(totalKm),
		Notes: []types.RouteNote{{
			Code:    types.NoteGeometryFallback,
			Message: "geometry is straight line segments between waypoints",
		}},
	}, nil
}

// appendNote adds a note unless one with the same code is already present.
func appendNote(notes []types.RouteNote, code, message string) []types.RouteNote {
	for _, n := range notes {
		if n.Code == code {
			return notes
		}
	}
	return append(notes, types.RouteNote{Code: code, Message: message})
}
