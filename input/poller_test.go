package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/milk9111/townwalk/controller"
)

type call struct {
	kind    string
	key     string
	dx, dy  float64
	buttons controller.ButtonMask
}

type recorder struct {
	calls []call
}

func (r *recorder) OnKeyDown(key string) { r.calls = append(r.calls, call{kind: "down", key: key}) }
func (r *recorder) OnKeyUp(key string)   { r.calls = append(r.calls, call{kind: "up", key: key}) }
func (r *recorder) OnPointerMove(dx, dy float64, b controller.ButtonMask) {
	r.calls = append(r.calls, call{kind: "move", dx: dx, dy: dy, buttons: b})
}
func (r *recorder) OnFrameTick() { r.calls = append(r.calls, call{kind: "tick"}) }
func (r *recorder) OnPick()      { r.calls = append(r.calls, call{kind: "pick"}) }

func (r *recorder) kinds() []string {
	var out []string
	for _, c := range r.calls {
		out = append(out, c.kind)
	}
	return out
}

type fakeScene struct {
	hit    bool
	picks  int
	orbits int
	wheel  float64
}

func (f *fakeScene) Pick(sx, sy, width, height float64) bool {
	f.picks++
	return f.hit
}

func (f *fakeScene) OrbitInput(dx, dy, wheel float64, buttons controller.ButtonMask) {
	f.orbits++
	f.wheel += wheel
}

type scripted struct {
	snaps []Snapshot
}

func (s *scripted) Poll() Snapshot {
	if len(s.snaps) == 0 {
		return Snapshot{}
	}
	next := s.snaps[0]
	s.snaps = s.snaps[1:]
	return next
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		key  ebiten.Key
		want string
	}{
		{ebiten.KeyW, "w"},
		{ebiten.KeyC, "c"},
		{ebiten.KeyShiftLeft, "shift"},
		{ebiten.KeyShiftRight, "shift"},
		{ebiten.KeyShift, "shift"},
		{ebiten.KeyEscape, "escape"},
		{ebiten.KeyDigit1, "1"},
		{ebiten.KeyControlLeft, "control"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyName(tt.key))
		})
	}
}

func TestKeyFolderMergesPresses(t *testing.T) {
	var f keyFolder
	var s Snapshot
	f.pressKeys([]ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyW, ebiten.KeyShift, ebiten.KeyShiftRight}, &s)
	assert.Equal(t, []string{"shift", "w"}, s.Pressed)
	assert.Empty(t, s.Released)
}

func TestKeyFolderHoldsSharedName(t *testing.T) {
	var f keyFolder

	var s Snapshot
	f.pressKeys([]ebiten.Key{ebiten.KeyShiftLeft}, &s)
	f.pressKeys([]ebiten.Key{ebiten.KeyShiftRight, ebiten.KeyShift}, &s)
	assert.Equal(t, []string{"shift"}, s.Pressed)

	s = Snapshot{}
	f.releaseKeys([]ebiten.Key{ebiten.KeyShiftLeft}, &s)
	assert.Empty(t, s.Released, "right shift is still down")

	s = Snapshot{}
	f.releaseKeys([]ebiten.Key{ebiten.KeyShiftRight, ebiten.KeyShift}, &s)
	assert.Equal(t, []string{"shift"}, s.Released)
}

func TestKeyFolderGamepadAndKeyboard(t *testing.T) {
	var f keyFolder
	var s Snapshot

	f.pressKeys([]ebiten.Key{ebiten.KeyW}, &s)
	f.press("pad:w", "w", &s)
	f.releaseKeys([]ebiten.Key{ebiten.KeyW}, &s)
	assert.Equal(t, []string{"w"}, s.Pressed)
	assert.Empty(t, s.Released)

	f.release("pad:w", &s)
	f.release("pad:w", &s)
	assert.Equal(t, []string{"w"}, s.Released)
}

func TestHeldShiftKeepsRunning(t *testing.T) {
	var f keyFolder
	host := &nopHost{}
	c := controller.New(host, controller.DefaultConfig())
	p := NewPoller(&scripted{}, c, nil, nil)

	step := func(press, release []ebiten.Key) {
		var s Snapshot
		f.pressKeys(press, &s)
		f.releaseKeys(release, &s)
		p.Dispatch(s, 800, 600)
	}

	step([]ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyShift}, nil)
	step([]ebiten.Key{ebiten.KeyShiftRight}, nil)
	step(nil, []ebiten.Key{ebiten.KeyShiftLeft})
	assert.True(t, c.Held(controller.SpeedModifier))

	step(nil, []ebiten.Key{ebiten.KeyShiftRight, ebiten.KeyShift})
	assert.False(t, c.Held(controller.SpeedModifier))
}

func TestDispatchKeys(t *testing.T) {
	rec := &recorder{}
	p := NewPoller(&scripted{}, rec, nil, nil)

	p.Dispatch(Snapshot{Pressed: []string{"w", "shift"}}, 800, 600)
	p.Dispatch(Snapshot{Released: []string{"w"}}, 800, 600)

	assert.Equal(t, []call{
		{kind: "down", key: "w"},
		{kind: "down", key: "shift"},
		{kind: "up", key: "w"},
	}, rec.calls)
}

func TestDispatchPointerDeltas(t *testing.T) {
	rec := &recorder{}
	p := NewPoller(&scripted{}, rec, nil, nil)

	// first sample only primes the position
	p.Dispatch(Snapshot{X: 100, Y: 100}, 800, 600)
	assert.Empty(t, rec.calls)

	p.Dispatch(Snapshot{X: 110, Y: 95, Buttons: controller.ButtonMiddle}, 800, 600)
	p.Dispatch(Snapshot{X: 110, Y: 95, Buttons: controller.ButtonMiddle}, 800, 600)
	p.Dispatch(Snapshot{X: 110, Y: 95}, 800, 600)

	assert.Equal(t, []call{
		{kind: "move", dx: 10, dy: -5, buttons: controller.ButtonMiddle},
		{kind: "move", dx: 0, dy: 0, buttons: 0},
	}, rec.calls)
}

func TestClickPicks(t *testing.T) {
	rec := &recorder{}
	sc := &fakeScene{hit: true}
	p := NewPoller(&scripted{}, rec, sc, nil)

	p.Dispatch(Snapshot{X: 50, Y: 50}, 800, 600)
	p.Dispatch(Snapshot{X: 50, Y: 50, Buttons: controller.ButtonLeft}, 800, 600)
	p.Dispatch(Snapshot{X: 52, Y: 51}, 800, 600)

	assert.Equal(t, 1, sc.picks)
	assert.Contains(t, rec.kinds(), "pick")
}

func TestClickMissDoesNotPick(t *testing.T) {
	rec := &recorder{}
	sc := &fakeScene{}
	p := NewPoller(&scripted{}, rec, sc, nil)

	p.Dispatch(Snapshot{Buttons: controller.ButtonLeft}, 800, 600)
	p.Dispatch(Snapshot{}, 800, 600)

	assert.Equal(t, 1, sc.picks)
	assert.NotContains(t, rec.kinds(), "pick")
}

func TestDragDoesNotPick(t *testing.T) {
	rec := &recorder{}
	sc := &fakeScene{hit: true}
	p := NewPoller(&scripted{}, rec, sc, nil)

	p.Dispatch(Snapshot{X: 0, Y: 0, Buttons: controller.ButtonLeft}, 800, 600)
	p.Dispatch(Snapshot{X: 40, Y: 0, Buttons: controller.ButtonLeft}, 800, 600)
	p.Dispatch(Snapshot{X: 0, Y: 0}, 800, 600)

	assert.Zero(t, sc.picks)
}

func TestWheelReachesOrbit(t *testing.T) {
	sc := &fakeScene{}
	p := NewPoller(&scripted{snaps: []Snapshot{{Wheel: 1}, {Wheel: -0.5}}}, &recorder{}, sc, nil)

	p.Update(800, 600)
	s := p.Update(800, 600)

	assert.Equal(t, 2, sc.orbits)
	assert.InDelta(t, 0.5, sc.wheel, 1e-9)
	assert.Equal(t, -0.5, s.Wheel)
}

func TestSnapshotJustPressed(t *testing.T) {
	s := Snapshot{Pressed: []string{"p", "escape"}}
	assert.True(t, s.JustPressed("escape"))
	assert.False(t, s.JustPressed("c"))
}

func TestPollerDrivesController(t *testing.T) {
	host := &nopHost{}
	c := controller.New(host, controller.DefaultConfig())
	p := NewPoller(&scripted{}, c, nil, nil)

	p.Dispatch(Snapshot{Pressed: []string{"c"}}, 800, 600)
	assert.Equal(t, controller.FirstPerson, c.Mode())

	p.Dispatch(Snapshot{Pressed: []string{"w"}}, 800, 600)
	c.OnFrameTick()
	assert.InDelta(t, 0.2, c.Pose().Position.Z, 1e-9)
}

func TestPausedDropsStateChanges(t *testing.T) {
	host := &nopHost{}
	c := controller.New(host, controller.DefaultConfig())
	sc := &fakeScene{hit: true}
	p := NewPoller(&scripted{}, c, sc, nil)

	p.Dispatch(Snapshot{Pressed: []string{"w"}, X: 10, Y: 10}, 800, 600)
	orbits := sc.orbits
	p.SetPaused(true)

	p.Dispatch(Snapshot{Pressed: []string{"c"}, X: 10, Y: 10}, 800, 600)
	p.Dispatch(Snapshot{X: 60, Y: 40, Buttons: controller.ButtonMiddle}, 800, 600)
	p.Dispatch(Snapshot{X: 60, Y: 40, Buttons: controller.ButtonLeft}, 800, 600)
	p.Dispatch(Snapshot{X: 60, Y: 40, Released: []string{"w"}}, 800, 600)

	assert.Equal(t, controller.Overview, c.Mode())
	assert.False(t, c.Held(controller.Forward))
	assert.Zero(t, sc.picks)
	assert.Equal(t, orbits, sc.orbits)

	// a click pressed during the pause and released after it does not pick
	p.Dispatch(Snapshot{X: 60, Y: 40, Buttons: controller.ButtonLeft}, 800, 600)
	p.SetPaused(false)
	p.Dispatch(Snapshot{X: 60, Y: 40}, 800, 600)
	assert.Zero(t, sc.picks)

	p.Dispatch(Snapshot{X: 60, Y: 40, Buttons: controller.ButtonLeft}, 800, 600)
	p.Dispatch(Snapshot{X: 60, Y: 40}, 800, 600)
	assert.Equal(t, 1, sc.picks)
}

func TestPausedIgnoresLookDrag(t *testing.T) {
	rec := &recorder{}
	p := NewPoller(&scripted{}, rec, nil, nil)
	p.Dispatch(Snapshot{X: 0, Y: 0}, 800, 600)

	p.SetPaused(true)
	p.Dispatch(Snapshot{X: 30, Y: 10, Buttons: controller.ButtonMiddle}, 800, 600)
	p.Dispatch(Snapshot{X: 30, Y: 10, Pressed: []string{"c"}, Released: []string{"shift"}}, 800, 600)
	assert.Equal(t, []call{{kind: "up", key: "shift"}}, rec.calls)

	// no jump on resume: the delta is measured from the last paused sample
	p.SetPaused(false)
	p.Dispatch(Snapshot{X: 32, Y: 10, Buttons: controller.ButtonMiddle}, 800, 600)
	assert.Equal(t, call{kind: "move", dx: 2, dy: 0, buttons: controller.ButtonMiddle}, rec.calls[len(rec.calls)-1])
}
