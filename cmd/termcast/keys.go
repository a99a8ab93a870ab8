package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/gridcaster/sim"
)

// Terminals report presses and auto-repeat but no releases, so a movement key
// counts as held until holdFor passes without another repeat.
const holdFor = 250 * time.Millisecond

type action int

const (
	actForward action = iota
	actBack
	actStrafeLeft
	actStrafeRight
	actTurnLeft
	actTurnRight
	numActions
)

type keyState struct {
	until [numActions]time.Time

	fire  bool
	pause bool
	debug bool
	quit  bool
}

// handle records a key event at now.
func (k *keyState) handle(ev *tcell.EventKey, now time.Time) {
	hold := func(a action) { k.until[a] = now.Add(holdFor) }

	switch ev.Key() {
	case tcell.KeyCtrlC:
		k.quit = true
	case tcell.KeyEscape:
		k.pause = true
	case tcell.KeyF3:
		k.debug = true
	case tcell.KeyUp:
		hold(actForward)
	case tcell.KeyDown:
		hold(actBack)
	case tcell.KeyLeft:
		hold(actTurnLeft)
	case tcell.KeyRight:
		hold(actTurnRight)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			hold(actForward)
		case 's', 'S':
			hold(actBack)
		case 'a', 'A':
			hold(actStrafeLeft)
		case 'd', 'D':
			hold(actStrafeRight)
		case 'j', 'J':
			hold(actTurnLeft)
		case 'l', 'L':
			hold(actTurnRight)
		case ' ':
			k.fire = true
		case 'p', 'P':
			k.pause = true
		case 'f', 'F':
			k.debug = true
		}
	}
}

// input builds the tick's sim.Input and consumes one-shot presses.
func (k *keyState) input(now time.Time) sim.Input {
	held := func(a action) bool { return now.Before(k.until[a]) }
	in := sim.Input{
		Forward:         held(actForward),
		Back:            held(actBack),
		StrafeLeft:      held(actStrafeLeft),
		StrafeRight:     held(actStrafeRight),
		TurnLeft:        held(actTurnLeft),
		TurnRight:       held(actTurnRight),
		Fire:            k.fire,
		Pause:           k.pause,
		ToggleDoorDebug: k.debug,
	}
	k.fire, k.pause, k.debug = false, false, false
	return in
}
