// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout simulation, frame production, cache operations,
// and live viewer sessions.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Simulation and render hooks run inside the per-tick and per-frame loops, so
// they take no context and must return quickly.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSimulationHooks(&mySimulationHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Simulation().OnRestart(nodeCount, alpha)
//	// ... ticks ...
//	observability.Simulation().OnSettled(ticks, elapsed)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events from the force simulator.
type SimulationHooks interface {
	// OnRestart records a (re)heat of the simulation to alpha.
	OnRestart(nodeCount int, alpha float64)

	// OnTick records a completed tick.
	OnTick(tick int, alpha float64)

	// OnSettled records the simulation falling below its minimum alpha.
	OnSettled(ticks int, elapsed time.Duration)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the render scheduler.
type RenderHooks interface {
	// OnFrame records a drawn frame.
	OnFrame(nodes, labels int, duration time.Duration, err error)

	// OnFrameSkipped records an animation frame where nothing was dirty.
	OnFrameSkipped()
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Live Hooks
// =============================================================================

// LiveHooks receives events from the live viewer server.
type LiveHooks interface {
	// OnSessionOpen records a new viewer connection.
	OnSessionOpen(ctx context.Context, sessionID string)

	// OnSessionClose records a viewer disconnecting.
	OnSessionClose(ctx context.Context, sessionID string, duration time.Duration)

	// OnEvent records an input event (pointer, zoom, search) from a viewer.
	OnEvent(ctx context.Context, sessionID, kind string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnRestart(int, float64)       {}
func (NoopSimulationHooks) OnTick(int, float64)          {}
func (NoopSimulationHooks) OnSettled(int, time.Duration) {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnFrame(int, int, time.Duration, error) {}
func (NoopRenderHooks) OnFrameSkipped()                        {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopLiveHooks is a no-op implementation of LiveHooks.
type NoopLiveHooks struct{}

func (NoopLiveHooks) OnSessionOpen(context.Context, string)                 {}
func (NoopLiveHooks) OnSessionClose(context.Context, string, time.Duration) {}
func (NoopLiveHooks) OnEvent(context.Context, string, string)               {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	simulationHooks SimulationHooks = NoopSimulationHooks{}
	renderHooks     RenderHooks     = NoopRenderHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	liveHooks       LiveHooks       = NoopLiveHooks{}
	hooksMu         sync.RWMutex
)

// SetSimulationHooks registers custom simulation hooks.
// This should be called once at application startup before any layout runs.
func SetSimulationHooks(h SimulationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulationHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetLiveHooks registers custom live server hooks.
func SetLiveHooks(h LiveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		liveHooks = h
	}
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulationHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Live returns the registered live server hooks.
func Live() LiveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return liveHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	simulationHooks = NoopSimulationHooks{}
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
	liveHooks = NoopLiveHooks{}
}
