package game

import (
	"context"
	"log/slog"
	"sort"

	"github.com/pthm-cable/velamare/assets"
	"github.com/pthm-cable/velamare/scene"
	"github.com/pthm-cable/velamare/telemetry"
)

// requestAssets starts loading the vessel and every species model.
func (g *Game) requestAssets() {
	add := func(id, kind string) {
		if id == "" {
			return
		}
		g.assetKinds[id] = append(g.assetKinds[id], kind)
		g.status[kind] = StatusLoading
		g.tracker.Request(id)
	}

	add(g.cfg.Assets.Vessel, scene.VesselID.Kind)
	for _, sp := range g.cfg.Species {
		add(sp.Asset, sp.ID)
	}
}

// WaitForAssets blocks until every requested model has loaded or failed, or
// ctx is done. Headless runs call it so activation happens at tick zero.
func (g *Game) WaitForAssets(ctx context.Context) error {
	var batch []assets.Result
	for g.tracker.Pending() > 0 {
		r, ok := g.tracker.Next(ctx)
		if !ok {
			g.handleResults(batch)
			return ctx.Err()
		}
		batch = append(batch, r)
	}
	g.handleResults(batch)
	return nil
}

// handleResults activates what loaded and records what failed. Results are
// handled in id order so arrival timing never changes the scene.
func (g *Game) handleResults(results []assets.Result) {
	if len(results) == 0 {
		return
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })

	for _, r := range results {
		g.collector.RecordAssetLoad(r.Err)
		g.recordEvent(telemetry.NewAssetEvent(g.tick, r.ID, r.Err))

		for _, kind := range g.assetKinds[r.ID] {
			if r.Err != nil {
				slog.Warn("asset load failed", "asset", r.ID, "kind", kind, "error", r.Err)
				g.status[kind] = StatusFailed
				continue
			}
			if g.onModel != nil {
				g.onModel(kind, r.Model)
			}
			if kind == scene.VesselID.Kind {
				g.vesselModel = r.Model
				g.status[kind] = StatusActive
				slog.Info("vessel model loaded", "asset", r.ID, "elapsed", r.Elapsed)
				continue
			}
			g.activateSpecies(kind, r)
		}
	}
}

func (g *Game) activateSpecies(kind string, r assets.Result) {
	if err := g.marine.Activate(kind, g.vessel.Position()); err != nil {
		slog.Warn("species activation failed", "species", kind, "error", err)
		g.status[kind] = StatusFailed
		return
	}
	g.status[kind] = StatusActive
	count := g.marine.SpeciesCounts()[kind]
	slog.Info("species activated", "species", kind, "agents", count, "elapsed", r.Elapsed)
	g.recordEvent(telemetry.NewSpeciesActivatedEvent(g.tick, kind, count))
}

// SpeciesStatus is the load state and population of one species.
type SpeciesStatus struct {
	ID     string
	Status string
	Count  int
}

// Species returns every configured species in config order.
func (g *Game) Species() []SpeciesStatus {
	counts := g.marine.SpeciesCounts()
	out := make([]SpeciesStatus, 0, len(g.cfg.Species))
	for _, sp := range g.cfg.Species {
		st := g.status[sp.ID]
		if st == "" {
			st = StatusFailed // No asset configured
		}
		out = append(out, SpeciesStatus{ID: sp.ID, Status: st, Count: counts[sp.ID]})
	}
	return out
}

// VesselStatus returns the load state of the vessel model.
func (g *Game) VesselStatus() string {
	return g.status[scene.VesselID.Kind]
}

// PendingLoads returns how many models are still loading.
func (g *Game) PendingLoads() int { return g.tracker.Pending() }
