package game

import (
	"log/slog"

	"github.com/pthm-cable/velamare/systems"
	"github.com/pthm-cable/velamare/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.simTime) {
		return
	}

	agents := make([]systems.AgentView, 0, g.marine.AgentCount())
	g.marine.ForEachAgent(func(a systems.AgentView) {
		agents = append(agents, a)
	})

	vs := g.vessel.State()
	stats, species := g.collector.Flush(g.tick, g.simTime,
		telemetry.VesselSample{Position: vs.Position, Heading: vs.Heading},
		agents, g.marine.Transitions())
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WriteSpecies(species); err != nil {
			slog.Error("failed to write species", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// recordEvent logs a scene event when stats logging is on and appends it to
// events.csv when output is enabled.
func (g *Game) recordEvent(e telemetry.Event) {
	if g.logStats {
		e.LogEvent()
	}
	if err := g.outputManager.WriteEvent(e); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}
