// Package telemetry provides scene health tracking, bookmarking, and CSV output.
package telemetry

import (
	"log/slog"
	"strconv"
)

// EventType identifies discrete scene events.
type EventType string

const (
	EventSpeciesActivated EventType = "species_activated"
	EventAssetFailed      EventType = "asset_failed"
	EventAssetLoaded      EventType = "asset_loaded"
	EventDarkMode         EventType = "dark_mode"
	EventBoundaryHit      EventType = "boundary_hit"
)

// Event is a single scene event. Events are rare and written one row each.
type Event struct {
	Type    EventType `csv:"type"`
	Tick    int32     `csv:"tick"`
	Subject string    `csv:"subject"`
	Detail  string    `csv:"detail"`
}

// NewSpeciesActivatedEvent records a species going live with count agents.
func NewSpeciesActivatedEvent(tick int32, species string, count int) Event {
	return Event{
		Type:    EventSpeciesActivated,
		Tick:    tick,
		Subject: species,
		Detail:  strconv.Itoa(count),
	}
}

// NewAssetEvent records the outcome of a model load.
func NewAssetEvent(tick int32, id string, err error) Event {
	if err != nil {
		return Event{Type: EventAssetFailed, Tick: tick, Subject: id, Detail: err.Error()}
	}
	return Event{Type: EventAssetLoaded, Tick: tick, Subject: id}
}

// NewDarkModeEvent records a theme switch.
func NewDarkModeEvent(tick int32, dark bool) Event {
	detail := "off"
	if dark {
		detail = "on"
	}
	return Event{Type: EventDarkMode, Tick: tick, Subject: "theme", Detail: detail}
}

// NewBoundaryHitEvent records the vessel being held at the world edge.
func NewBoundaryHitEvent(tick int32, axis string) Event {
	return Event{Type: EventBoundaryHit, Tick: tick, Subject: "vessel", Detail: axis}
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	slog.Info("event",
		"type", string(e.Type),
		"tick", e.Tick,
		"subject", e.Subject,
		"detail", e.Detail,
	)
}
