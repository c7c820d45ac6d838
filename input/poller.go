// Package input polls ebiten once per tick and turns what changed into
// controller callbacks.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/milk9111/townwalk/controller"
)

// clickSlop is how far the pointer may travel between press and release
// for the release to count as a click rather than a drag.
const clickSlop = 4

// Snapshot is one tick of raw input.
type Snapshot struct {
	Pressed  []string
	Released []string
	X, Y     int
	Buttons  controller.ButtonMask
	Wheel    float64
}

// JustPressed reports whether key went down this tick.
func (s Snapshot) JustPressed(key string) bool {
	for _, k := range s.Pressed {
		if k == key {
			return true
		}
	}
	return false
}

// Source produces snapshots; Ebiten is the real one.
type Source interface {
	Poll() Snapshot
}

// Scene is the part of the scene the poller drives directly.
type Scene interface {
	Pick(sx, sy, width, height float64) bool
	OrbitInput(dx, dy, wheel float64, buttons controller.ButtonMask)
}

// Ebiten reads the keyboard, mouse and first gamepad.
type Ebiten struct {
	keys []ebiten.Key
	fold keyFolder
}

func (e *Ebiten) Poll() Snapshot {
	var s Snapshot

	e.keys = inpututil.AppendJustPressedKeys(e.keys[:0])
	e.fold.pressKeys(e.keys, &s)
	e.keys = inpututil.AppendJustReleasedKeys(e.keys[:0])
	e.fold.releaseKeys(e.keys, &s)

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		for _, m := range gamepadKeys {
			src := "pad:" + m.key
			if inpututil.IsStandardGamepadButtonJustPressed(id, m.button) {
				e.fold.press(src, m.key, &s)
			}
			if inpututil.IsStandardGamepadButtonJustReleased(id, m.button) {
				e.fold.release(src, &s)
			}
		}
	}

	s.X, s.Y = ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		s.Buttons |= controller.ButtonLeft
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		s.Buttons |= controller.ButtonRight
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		s.Buttons |= controller.ButtonMiddle
	}
	_, s.Wheel = ebiten.Wheel()
	return s
}

// Poller turns snapshots into controller and scene calls.
type Poller struct {
	src     Source
	handler controller.InputHandler
	scene   Scene
	log     *zap.Logger

	primed       bool
	lastX, lastY int
	lastButtons  controller.ButtonMask

	downX, downY int
	dragged      bool

	paused bool
}

func NewPoller(src Source, handler controller.InputHandler, scene Scene, log *zap.Logger) *Poller {
	if src == nil {
		src = &Ebiten{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{src: src, handler: handler, scene: scene, log: log}
}

// SetPaused stops presses, pointer motion and clicks from reaching the
// controller and scene. Releases still go through so nothing stays held.
func (p *Poller) SetPaused(paused bool) {
	p.paused = paused
}

// Update polls once and dispatches. The snapshot is returned so the game
// can react to its own keys.
func (p *Poller) Update(width, height int) Snapshot {
	s := p.src.Poll()
	p.Dispatch(s, width, height)
	return s
}

// Dispatch forwards one snapshot.
func (p *Poller) Dispatch(s Snapshot, width, height int) {
	if !p.paused {
		for _, k := range s.Pressed {
			p.handler.OnKeyDown(k)
		}
	}
	for _, k := range s.Released {
		p.handler.OnKeyUp(k)
	}

	dx, dy := 0, 0
	if p.primed {
		dx, dy = s.X-p.lastX, s.Y-p.lastY
	}
	p.primed = true
	p.lastX, p.lastY = s.X, s.Y

	if p.paused {
		// a press that started while paused must not pick on resume
		p.dragged = true
		p.lastButtons = s.Buttons
		return
	}

	if dx != 0 || dy != 0 || s.Buttons != p.lastButtons {
		p.handler.OnPointerMove(float64(dx), float64(dy), s.Buttons)
	}
	if p.scene != nil {
		p.scene.OrbitInput(float64(dx), float64(dy), s.Wheel, s.Buttons)
	}

	p.trackClick(s, width, height)
	p.lastButtons = s.Buttons
}

func (p *Poller) trackClick(s Snapshot, width, height int) {
	wasDown := p.lastButtons.Has(controller.ButtonLeft)
	isDown := s.Buttons.Has(controller.ButtonLeft)
	switch {
	case isDown && !wasDown:
		p.downX, p.downY = s.X, s.Y
		p.dragged = false
	case isDown:
		p.dragged = p.dragged || p.moved(s)
	case wasDown && !p.dragged && !p.moved(s):
		if p.scene != nil && p.scene.Pick(float64(s.X), float64(s.Y), float64(width), float64(height)) {
			p.log.Debug("avatar picked", zap.Int("x", s.X), zap.Int("y", s.Y))
			p.handler.OnPick()
		}
	}
}

func (p *Poller) moved(s Snapshot) bool {
	return abs(s.X-p.downX) > clickSlop || abs(s.Y-p.downY) > clickSlop
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
