// Package script runs the per-frame tengo sky script.
package script

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/townwalk/common"
	"github.com/milk9111/townwalk/geom"
	"github.com/milk9111/townwalk/prefabs"
)

// Sky evaluates a script that turns elapsed seconds and the base clear
// colour into this frame's sky colour. The script reads elapsed, base_r,
// base_g and base_b, and sets sky_r, sky_g and sky_b. Any failure falls back
// to the base colour.
type Sky struct {
	path     string
	log      *zap.Logger
	compiled *tengo.Compiled
	// reported suppresses repeat run-error logs until the next reload.
	reported bool
}

// NewSky loads and compiles the script at path. A script that does not
// compile is logged and the sky stays at the base colour until Reload
// succeeds.
func NewSky(path string, log *zap.Logger) *Sky {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Sky{path: path, log: log}
	if err := s.Reload(); err != nil {
		log.Warn("sky script disabled", zap.String("path", path), zap.Error(err))
	}
	return s
}

// NewSkySource compiles src directly.
func NewSkySource(src []byte, log *zap.Logger) (*Sky, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Sky{log: log}
	compiled, err := compile(src)
	if err != nil {
		return s, err
	}
	s.compiled = compiled
	return s, nil
}

// Reload re-reads the script. On failure the previous script keeps running.
func (s *Sky) Reload() error {
	src, err := prefabs.LoadScript(s.path)
	if err != nil {
		return fmt.Errorf("script: load %s: %w", s.path, err)
	}
	compiled, err := compile(src)
	if err != nil {
		return fmt.Errorf("script: compile %s: %w", s.path, err)
	}
	s.compiled = compiled
	s.reported = false
	s.log.Debug("sky script loaded", zap.String("path", s.path))
	return nil
}

// Enabled reports whether a compiled script is available.
func (s *Sky) Enabled() bool {
	return s != nil && s.compiled != nil
}

// Color runs the script once.
func (s *Sky) Color(elapsed float64, base geom.Color) geom.Color {
	if !s.Enabled() {
		return base
	}
	c, err := s.run(elapsed, base)
	if err != nil {
		if !s.reported {
			s.log.Warn("sky script failed", zap.String("path", s.path), zap.Error(err))
			s.reported = true
		}
		return base
	}
	return c
}

func (s *Sky) run(elapsed float64, base geom.Color) (geom.Color, error) {
	for name, v := range map[string]float64{
		"elapsed": elapsed,
		"base_r":  base.R,
		"base_g":  base.G,
		"base_b":  base.B,
	} {
		if err := s.compiled.Set(name, v); err != nil {
			return base, err
		}
	}
	if err := s.compiled.Run(); err != nil {
		return base, err
	}

	out := base
	for name, dst := range map[string]*float64{"sky_r": &out.R, "sky_g": &out.G, "sky_b": &out.B} {
		if !s.compiled.IsDefined(name) {
			return base, fmt.Errorf("script: %s not set", name)
		}
		*dst = common.Clamp(s.compiled.Get(name).Float(), 0, 1)
	}
	return out, nil
}

func compile(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript(src)
	for _, name := range []string{"elapsed", "base_r", "base_g", "base_b"} {
		_ = script.Add(name, 0.0)
	}
	_ = script.Add("lerp", &tengo.UserFunction{Name: "lerp", Value: lerp})
	script.SetImports(stdlib.GetModuleMap("math"))
	return script.Compile()
}

// lerp(a, b, t) for scripts.
func lerp(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 3 {
		return nil, tengo.ErrWrongNumArguments
	}
	var f [3]float64
	for i, a := range args {
		v, ok := tengo.ToFloat64(a)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("arg%d", i), Expected: "float", Found: a.TypeName()}
		}
		f[i] = v
	}
	return &tengo.Float{Value: common.Lerp(f[0], f[1], f[2])}, nil
}
