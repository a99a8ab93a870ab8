package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/gridcaster/sim"
)

const stickDeadzone = 0.2

// Input polls keyboard, mouse and the first gamepad into a sim.Input.
type Input struct {
	// Quit is set on the frame F12 was pressed.
	Quit bool

	mouseLook      bool
	lastX, lastY   int
	haveLastCursor bool
}

func NewInput(mouseLook bool) *Input {
	return &Input{mouseLook: mouseLook}
}

// Update returns this tick's intent. Mouse deltas are only reported while
// mouse look is on and the sim is running.
func (i *Input) Update(paused bool) sim.Input {
	i.Quit = inpututil.IsKeyJustPressed(ebiten.KeyF12)

	in := sim.Input{
		Forward:     ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Back:        ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		StrafeLeft:  ebiten.IsKeyPressed(ebiten.KeyA),
		StrafeRight: ebiten.IsKeyPressed(ebiten.KeyD),
		TurnLeft:    ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyQ),
		TurnRight:   ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyE),
		Fire: inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
			(!paused && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)),
		Pause:           inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP),
		ToggleDoorDebug: inpututil.IsKeyJustPressed(ebiten.KeyF3),
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		in.Forward = in.Forward || ly < -stickDeadzone
		in.Back = in.Back || ly > stickDeadzone
		in.StrafeLeft = in.StrafeLeft || lx < -stickDeadzone
		in.StrafeRight = in.StrafeRight || lx > stickDeadzone
		in.TurnLeft = in.TurnLeft || rx < -stickDeadzone
		in.TurnRight = in.TurnRight || rx > stickDeadzone
		in.Fire = in.Fire || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		in.Pause = in.Pause || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}

	x, y := ebiten.CursorPosition()
	if i.mouseLook && !paused && i.haveLastCursor {
		in.MouseDX = float64(x - i.lastX)
		in.MouseDY = float64(y - i.lastY)
	}
	i.lastX, i.lastY = x, y
	i.haveLastCursor = true

	return in
}
