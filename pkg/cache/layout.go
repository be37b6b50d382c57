package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/netgraph/pkg/graph"
	"github.com/matzehuels/netgraph/pkg/observability"
)

// Positions maps node keys to settled world coordinates.
type Positions map[string][2]float64

// Capture records the position of every placed node in g.
func Capture(g *graph.Graph) Positions {
	p := make(Positions, g.NodeCount())
	for _, n := range g.Nodes() {
		if n.HasPosition() {
			p[n.Key] = [2]float64{n.X, n.Y}
		}
	}
	return p
}

// Apply moves every node of g that has a recorded position and returns how
// many were moved. Pinned nodes keep their pin.
func (p Positions) Apply(g *graph.Graph) int {
	n := 0
	for _, node := range g.Nodes() {
		if node.Pinned {
			continue
		}
		if xy, ok := p[node.Key]; ok {
			node.SetPosition(xy[0], xy[1])
			n++
		}
	}
	return n
}

// LoadLayout reads the positions stored under key. A miss returns
// ErrCacheMiss.
func LoadLayout(ctx context.Context, c Cache, key string) (Positions, error) {
	hooks := observability.Cache()
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok {
		hooks.OnCacheMiss(ctx, key)
		return nil, ErrCacheMiss
	}

	var p Positions
	if err := json.Unmarshal(data, &p); err != nil {
		hooks.OnCacheMiss(ctx, key)
		_ = c.Delete(ctx, key)
		return nil, ErrCacheMiss
	}
	hooks.OnCacheHit(ctx, key)
	return p, nil
}

// SaveLayout stores p under key.
func SaveLayout(ctx context.Context, c Cache, key string, p Positions, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
	return nil
}
