package input

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// KeyName maps an ebiten key to the raw identifier the controller's key map
// uses: lower-case letters and digits, "shift" for either shift key, and the
// lower-cased ebiten name for everything else.
func KeyName(k ebiten.Key) string {
	switch k {
	case ebiten.KeyShift, ebiten.KeyShiftLeft, ebiten.KeyShiftRight:
		return "shift"
	case ebiten.KeyControl, ebiten.KeyControlLeft, ebiten.KeyControlRight:
		return "control"
	case ebiten.KeyAlt, ebiten.KeyAltLeft, ebiten.KeyAltRight:
		return "alt"
	case ebiten.KeyMeta, ebiten.KeyMetaLeft, ebiten.KeyMetaRight:
		return "meta"
	}
	name := k.String()
	if after, ok := strings.CutPrefix(name, "Digit"); ok {
		name = after
	}
	return strings.ToLower(name)
}

// virtualKey reports keys ebiten derives from a left/right pair. They are
// skipped so only physical keys are counted.
func virtualKey(k ebiten.Key) bool {
	switch k {
	case ebiten.KeyShift, ebiten.KeyControl, ebiten.KeyAlt, ebiten.KeyMeta:
		return true
	}
	return false
}

// keyFolder folds physical inputs that share a name, like both shift keys or
// a gamepad button standing in for a key. A name is pressed when its first
// input goes down and released only once every input behind it is up.
type keyFolder struct {
	down map[string]string
}

func (f *keyFolder) held(name string) bool {
	for _, n := range f.down {
		if n == name {
			return true
		}
	}
	return false
}

func (f *keyFolder) press(src, name string, s *Snapshot) {
	if f.down == nil {
		f.down = make(map[string]string)
	}
	if _, ok := f.down[src]; ok {
		return
	}
	was := f.held(name)
	f.down[src] = name
	if !was {
		s.Pressed = append(s.Pressed, name)
	}
}

func (f *keyFolder) release(src string, s *Snapshot) {
	name, ok := f.down[src]
	if !ok {
		return
	}
	delete(f.down, src)
	if !f.held(name) {
		s.Released = append(s.Released, name)
	}
}

func (f *keyFolder) pressKeys(keys []ebiten.Key, s *Snapshot) {
	for _, k := range keys {
		if !virtualKey(k) {
			f.press(k.String(), KeyName(k), s)
		}
	}
}

func (f *keyFolder) releaseKeys(keys []ebiten.Key, s *Snapshot) {
	for _, k := range keys {
		if !virtualKey(k) {
			f.release(k.String(), s)
		}
	}
}

// gamepadKeys lets a standard gamepad's d-pad and face buttons stand in for
// the keyboard.
var gamepadKeys = []struct {
	button ebiten.StandardGamepadButton
	key    string
}{
	{ebiten.StandardGamepadButtonLeftTop, "w"},
	{ebiten.StandardGamepadButtonLeftBottom, "s"},
	{ebiten.StandardGamepadButtonLeftLeft, "a"},
	{ebiten.StandardGamepadButtonLeftRight, "d"},
	{ebiten.StandardGamepadButtonFrontBottomLeft, "shift"},
	{ebiten.StandardGamepadButtonRightTop, "c"},
	{ebiten.StandardGamepadButtonCenterRight, "escape"},
}
