// Package controller turns key, pointer and frame callbacks into avatar and
// camera transforms. It owns the view mode, the held-input state, the avatar
// pose and the look pitch; the cameras and meshes belong to the Host.
//
// Movement is level-triggered: every OnFrameTick re-reads the held actions,
// so simultaneous keys compose and nothing carries over between modes. Only
// the view toggle is edge-triggered.
package controller

import (
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/milk9111/townwalk/geom"
)

type Controller struct {
	host Host
	cfg  Config
	keys KeyMap
	log  *zap.Logger
	rng  *rand.Rand

	mode  ViewMode
	input InputState
	pose  AvatarPose
	pitch float64
}

var _ InputHandler = (*Controller)(nil)

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithKeyMap(m KeyMap) Option {
	return func(c *Controller) {
		if len(m) > 0 {
			c.keys = m
		}
	}
}

// WithRand sets the random source used for pick recolouring.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) {
		if r != nil {
			c.rng = r
		}
	}
}

// WithPose sets the avatar's starting pose.
func WithPose(p AvatarPose) Option {
	return func(c *Controller) {
		c.pose = p
	}
}

// New creates a controller in Overview mode and applies the Overview entry
// actions on host. A nil host is a programming error and panics.
func New(host Host, cfg Config, opts ...Option) *Controller {
	if host == nil {
		panic("controller: nil host")
	}
	c := &Controller{
		host: host,
		cfg:  cfg,
		keys: DefaultKeyMap(),
		log:  zap.NewNop(),
		rng:  rand.New(rand.NewSource(1)),
		mode: Overview,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.host.SetAvatarPose(c.pose)
	c.enter(c.mode)
	return c
}

func (c *Controller) Mode() ViewMode {
	return c.mode
}

func (c *Controller) Pose() AvatarPose {
	return c.pose
}

func (c *Controller) Pitch() float64 {
	return c.pitch
}

func (c *Controller) Config() Config {
	return c.cfg
}

// SetConfig swaps tuning values, e.g. after a prefab reload.
func (c *Controller) SetConfig(cfg Config) {
	c.cfg = cfg
	c.pitch = c.clampPitch(c.pitch)
}

// SetKeyMap rebinds keys. Held actions are released since their keys may
// no longer map to them.
func (c *Controller) SetKeyMap(m KeyMap) {
	if len(m) == 0 {
		return
	}
	c.keys = m
	c.input = InputState{}
}

func (c *Controller) Held(a Action) bool {
	return c.input.Held(a)
}

func (c *Controller) OnKeyDown(key string) {
	a, ok := c.keys.Lookup(key)
	if !ok {
		return
	}
	if a == ToggleView && !c.input.Held(ToggleView) {
		c.Toggle()
	}
	c.input.set(a, true)
}

func (c *Controller) OnKeyUp(key string) {
	a, ok := c.keys.Lookup(key)
	if !ok {
		return
	}
	c.input.set(a, false)
}

// OnPointerMove turns pointer motion into look changes while in FirstPerson
// with the look button held. Orbit dragging is the host's job.
func (c *Controller) OnPointerMove(dx, dy float64, buttons ButtonMask) {
	look := buttons.Has(c.cfg.LookButton)
	c.input.set(LookButton, look)
	if c.mode != FirstPerson || !look {
		return
	}
	c.pose.Heading += dx * c.cfg.LookSensitivity
	c.pitch = c.clampPitch(c.pitch + dy*c.cfg.LookSensitivity)
	c.host.SetAvatarPose(c.pose)
	c.syncFirstPersonView()
}

// OnFrameTick runs once per rendered frame before drawing.
func (c *Controller) OnFrameTick() {
	speed := 1.0
	if c.input.Held(SpeedModifier) {
		speed = c.cfg.SpeedMultiplier
	}

	switch c.mode {
	case FirstPerson:
		c.tickFirstPerson(speed)
	case Overview:
		c.tickOverview(speed)
	}
}

// OnPick gives the avatar a new uniformly random colour.
func (c *Controller) OnPick() {
	col := geom.RGB(c.rng.Float64(), c.rng.Float64(), c.rng.Float64())
	c.host.SetAvatarColor(col)
	c.log.Debug("avatar recoloured", zap.Float64("r", col.R), zap.Float64("g", col.G), zap.Float64("b", col.B))
}

// Toggle switches view mode and runs the new mode's entry actions.
func (c *Controller) Toggle() {
	c.mode = c.mode.Other()
	c.enter(c.mode)
	c.log.Info("camera view swapped", zap.Stringer("mode", c.mode), zap.Bool("person_view", c.mode == FirstPerson))
}

func (c *Controller) enter(mode ViewMode) {
	c.host.ActivateCamera(mode)
	c.host.AttachControl(mode)
	c.host.DetachControl(mode.Other())
	if mode == FirstPerson {
		c.syncFirstPersonView()
	}
}

func (c *Controller) tickFirstPerson(speed float64) {
	if c.input.Held(TurnLeft) {
		c.pose.Heading -= c.cfg.RotationSpeed
	}
	if c.input.Held(TurnRight) {
		c.pose.Heading += c.cfg.RotationSpeed
	}

	step := geom.HeadingDir(c.pose.Heading).Scale(c.cfg.PersonSpeed * speed)
	var delta geom.Vec3
	if c.input.Held(Forward) {
		delta = delta.Add(step)
	}
	if c.input.Held(Back) {
		delta = delta.Sub(step)
	}
	if delta.LenSq() > 0 {
		c.pose.Position = c.host.MoveWithCollision(c.pose.Position, delta)
	}

	c.host.SetAvatarPose(c.pose)
	c.syncFirstPersonView()
}

func (c *Controller) tickOverview(speed float64) {
	forward, right := c.host.OrbitAxes()
	forward = forward.Flatten()
	right = right.Flatten()

	var pan geom.Vec3
	if c.input.Held(Forward) {
		pan = pan.Add(forward)
	}
	if c.input.Held(Back) {
		pan = pan.Sub(forward)
	}
	if c.input.Held(TurnLeft) {
		pan = pan.Sub(right)
	}
	if c.input.Held(TurnRight) {
		pan = pan.Add(right)
	}
	if pan.LenSq() == 0 {
		return
	}
	c.host.PanOrbitTarget(pan.Scale(c.cfg.CameraSpeed * speed))
}

// syncFirstPersonView places the eye above the avatar, nudged forward so it
// does not clip the head, and aims it along heading and pitch.
func (c *Controller) syncFirstPersonView() {
	dir := geom.HeadingDir(c.pose.Heading)
	eye := c.pose.Position.
		Add(geom.V3(0, c.cfg.EyeHeight, 0)).
		Add(dir.Scale(c.cfg.EyeForward))
	cp := math.Cos(c.pitch)
	look := geom.V3(dir.X*cp, -math.Sin(c.pitch), dir.Z*cp)
	c.host.SetFirstPersonView(eye, eye.Add(look))
}

func (c *Controller) clampPitch(p float64) float64 {
	limit := c.cfg.PitchLimit
	if limit <= 0 {
		return 0
	}
	return math.Max(-limit, math.Min(limit, p))
}
