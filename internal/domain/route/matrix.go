package route

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/loci-route-engine/internal/routing"
	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

// Matrix holds pairwise walking legs over the request nodes. Index 0 is the
// start point, index i+1 is the candidate with rank i. Degraded marks legs
// produced by the straight-line estimator instead of the provider.
type Matrix struct {
	Legs     [][]routing.Leg
	Degraded bool
}

// At returns the leg from node i to node j.
func (m *Matrix) At(i, j int) routing.Leg {
	return m.Legs[i][j]
}

// Size returns the node count.
func (m *Matrix) Size() int {
	return len(m.Legs)
}

// MatrixBuilder produces distance matrices through the routing provider with
// a read-through TTL cache and a deterministic fallback. Build never fails:
// when the provider is missing, errors or times out, legs come from the
// straight-line estimator and the matrix is flagged degraded.
type MatrixBuilder struct {
	provider routing.Provider
	logger   *slog.Logger
	cache    *cache.Cache
}

// NewMatrixBuilder wires a matrix builder. provider may be nil when no
// routing service is configured.
func NewMatrixBuilder(provider routing.Provider, ttl time.Duration, logger *slog.Logger) *MatrixBuilder {
	return &MatrixBuilder{
		provider: provider,
		logger:   logger,
		cache:    cache.New(ttl, 2*ttl),
	}
}

// legKey identifies one directed leg, with coordinates rounded to 4 decimal
// places (roughly 11 meters) so nearby requests share cache entries.
func legKey(mode routing.Mode, from, to types.GeoPoint) string {
	return fmt.Sprintf("leg:%s:%.4f,%.4f|%.4f,%.4f",
		mode, from.Latitude, from.Longitude, to.Latitude, to.Longitude)
}

// Build assembles the full matrix over points. Cached legs are reused; a
// single batched provider call fills the gaps and feeds the cache. Only
// provider-measured legs are cached, fallback legs are recomputed on demand.
func (b *MatrixBuilder) Build(ctx context.Context, points []types.GeoPoint, mode routing.Mode) *Matrix {
	n := len(points)
	legs := make([][]routing.Leg, n)
	for i := range legs {
		legs[i] = make([]routing.Leg, n)
	}

	if b.fillFromCache(points, mode, legs) {
		return &Matrix{Legs: legs}
	}

	if b.provider == nil {
		return &Matrix{Legs: routing.EstimateMatrix(points), Degraded: true}
	}

	fetched, err := b.provider.Matrix(ctx, points, mode)
	if err != nil {
		b.logger.WarnContext(ctx, "routing provider failed, using straight-line estimates",
			slog.Any("error", err), slog.Int("points", n))
		return &Matrix{Legs: routing.EstimateMatrix(points), Degraded: true}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			b.cache.Set(legKey(mode, points[i], points[j]), fetched[i][j], cache.DefaultExpiration)
		}
	}
	return &Matrix{Legs: fetched}
}

// fillFromCache loads every off-diagonal leg from cache, reporting false on
// the first miss. Partial matrices are never mixed from cache and provider.
func (b *MatrixBuilder) fillFromCache(points []types.GeoPoint, mode routing.Mode, legs [][]routing.Leg) bool {
	n := len(points)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			cached, found := b.cache.Get(legKey(mode, points[i], points[j]))
			if !found {
				return false
			}
			leg, ok := cached.(routing.Leg)
			if !ok {
				return false
			}
			legs[i][j] = leg
		}
	}
	return true
}
