package world

import "github.com/milk9111/gridcaster/common"

// DoorState is the door finite-state machine state.
type DoorState uint8

const (
	DoorClosed DoorState = iota
	DoorOpening
	DoorOpen
	DoorClosing
)

func (s DoorState) String() string {
	switch s {
	case DoorClosed:
		return "closed"
	case DoorOpening:
		return "opening"
	case DoorOpen:
		return "open"
	case DoorClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// progressSnap absorbs float drift so that summed dt steps land exactly on 0 or 1.
const progressSnap = 1e-9

// DoorConfig holds door timing. OpenDistance is the trigger radius in tiles.
type DoorConfig struct {
	OpenDistance float64
	AnimDuration float64
	CloseDelay   float64
}

// DefaultDoorConfig mirrors prefabs/door.yaml.
func DefaultDoorConfig() DoorConfig {
	return DoorConfig{
		OpenDistance: 1.5,
		AnimDuration: 0.6,
		CloseDelay:   2.0,
	}
}

// Door is a sliding door occupying one grid cell.
type Door struct {
	Cell      common.Cell
	State     DoorState
	Progress  float64
	Timer     float64
	SlideAxis Axis
	SlideDir  int
}

func newDoor(cell common.Cell, axis Axis, dir int) *Door {
	return &Door{
		Cell:      cell,
		State:     DoorClosed,
		SlideAxis: axis,
		SlideDir:  dir,
	}
}

// Center returns the world-space center of the door cell.
func (d *Door) Center() common.Vec2 {
	return d.Cell.Center()
}

// Partial reports whether the slab is mid-slide.
func (d *Door) Partial() bool {
	return d.Progress > 0 && d.Progress < 1
}

// Passable reports whether entities may occupy the door cell.
func (d *Door) Passable() bool {
	return d.State == DoorOpen
}

// Update advances the door state machine by dt seconds and reports whether the
// state changed.
func (d *Door) Update(player common.Vec2, dt float64, cfg DoorConfig) bool {
	if d == nil {
		return false
	}
	prev := d.State
	near := player.Dist2(d.Center()) <= cfg.OpenDistance*cfg.OpenDistance

	switch d.State {
	case DoorClosed:
		if near {
			d.State = DoorOpening
			d.open(dt, cfg)
		}
	case DoorOpening:
		d.open(dt, cfg)
	case DoorOpen:
		if near {
			d.Timer = 0
		} else {
			d.Timer += dt
		}
		if d.Timer >= cfg.CloseDelay {
			d.State = DoorClosing
			d.close(dt, cfg)
		}
	case DoorClosing:
		// re-approaching reopens without waiting for the slab to finish
		if near {
			d.State = DoorOpening
			d.open(dt, cfg)
		} else {
			d.close(dt, cfg)
		}
	}

	return d.State != prev
}

func (d *Door) open(dt float64, cfg DoorConfig) {
	d.Progress += step(dt, cfg.AnimDuration)
	if d.Progress >= 1-progressSnap {
		d.Progress = 1
		d.State = DoorOpen
		d.Timer = 0
	}
}

func (d *Door) close(dt float64, cfg DoorConfig) {
	d.Progress -= step(dt, cfg.AnimDuration)
	if d.Progress <= progressSnap {
		d.Progress = 0
		d.State = DoorClosed
		d.Timer = 0
	}
}

func step(dt, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return dt / duration
}
