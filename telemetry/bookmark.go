package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSpeciesArrived BookmarkType = "species_arrived"
	BookmarkSchoolAtRest   BookmarkType = "school_at_rest"
	BookmarkFullAhead      BookmarkType = "full_ahead"
	BookmarkCalmSea        BookmarkType = "calm_sea"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// calmWindows is how many still windows make a calm sea.
const calmWindows = 5

// BookmarkDetector detects interesting moments in the scene.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	lastActiveSpecies int
	calmCount         int
	resting           bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkSpeciesArrived(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSchoolAtRest(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFullAhead(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCalmSea(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkSpeciesArrived(stats WindowStats) *Bookmark {
	prev := bd.lastActiveSpecies
	bd.lastActiveSpecies = stats.ActiveSpecies
	if stats.ActiveSpecies <= prev {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSpeciesArrived,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d species active, %d agents swimming", stats.ActiveSpecies, stats.AgentCount),
	}
}

// checkSchoolAtRest fires once when most agents are paused, and re-arms when
// the fraction drops back below a quarter.
func (bd *BookmarkDetector) checkSchoolAtRest(stats WindowStats) *Bookmark {
	if stats.AgentCount == 0 {
		return nil
	}
	if bd.resting {
		if stats.PausedFraction < 0.25 {
			bd.resting = false
		}
		return nil
	}
	if stats.PausedFraction <= 0.5 {
		return nil
	}
	bd.resting = true
	return &Bookmark{
		Type:        BookmarkSchoolAtRest,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%.0f%% of %d agents paused", stats.PausedFraction*100, stats.AgentCount),
	}
}

func (bd *BookmarkDetector) checkFullAhead(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.VesselSpeedMean
	}
	avg := total / float64(len(history))

	if stats.VesselSpeedMean > 1 && stats.VesselSpeedMean > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkFullAhead,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Vessel speed %.2f is over twice the recent average (%.2f)", stats.VesselSpeedMean, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCalmSea(stats WindowStats) *Bookmark {
	if stats.VesselSpeedMax > 0.05 {
		bd.calmCount = 0
		return nil
	}
	bd.calmCount++
	if bd.calmCount == calmWindows { // trigger exactly once per calm spell
		return &Bookmark{
			Type:        BookmarkCalmSea,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Vessel drifting for %d windows", calmWindows),
		}
	}
	return nil
}
