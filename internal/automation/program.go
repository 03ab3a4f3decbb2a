package automation

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/san-kum/linksim/internal/pbd"
)

// Program runs a tengo script before every step. The script sees `step`,
// `elapsed` and a `world` map of functions:
//
//	count()                 number of particles
//	position(i)             [x, y]
//	teleport(i, x, y)
//	toggle_fixed(i)
//	set_mobility(i, name)   "free", "fixed" or "kinematic"
//
// Globals are re-evaluated on every run, so a script keeps no state between
// steps.
type Program struct {
	compiled *tengo.Compiled
	engine   *tengo.ImmutableMap
	world    *pbd.World
}

func CompileProgram(src string) (*Program, error) {
	script := tengo.NewScript([]byte(src))
	_ = script.Add("step", 0)
	_ = script.Add("elapsed", 0.0)
	_ = script.Add("world", map[string]interface{}{})

	script.SetImports(stdlib.GetModuleMap("math", "rand", "text", "fmt"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}

	p := &Program{compiled: compiled}
	p.engine = p.buildEngine()
	return p, nil
}

func (p *Program) BeforeStep(step int, w *pbd.World) error {
	p.world = w
	if err := p.compiled.Set("step", step); err != nil {
		return err
	}
	if err := p.compiled.Set("elapsed", w.Elapsed()); err != nil {
		return err
	}
	if err := p.compiled.Set("world", p.engine); err != nil {
		return err
	}
	if err := p.compiled.Run(); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func (p *Program) buildEngine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["count"] = &tengo.UserFunction{Name: "count", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 0 {
			return nil, tengo.ErrWrongNumArguments
		}
		return &tengo.Int{Value: int64(p.world.ParticleCount())}, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		i, err := intArg(args[0], "index")
		if err != nil {
			return nil, err
		}
		pos, err := p.world.Position(i)
		if err != nil {
			return nil, err
		}
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: pos.X}, &tengo.Float{Value: pos.Y}}}, nil
	}}

	values["teleport"] = &tengo.UserFunction{Name: "teleport", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		i, err := intArg(args[0], "index")
		if err != nil {
			return nil, err
		}
		x, err := floatArg(args[1], "x")
		if err != nil {
			return nil, err
		}
		y, err := floatArg(args[2], "y")
		if err != nil {
			return nil, err
		}
		return tengo.UndefinedValue, p.world.Teleport(i, x, y)
	}}

	values["toggle_fixed"] = &tengo.UserFunction{Name: "toggle_fixed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		i, err := intArg(args[0], "index")
		if err != nil {
			return nil, err
		}
		return tengo.UndefinedValue, p.world.ToggleFixed(i)
	}}

	values["set_mobility"] = &tengo.UserFunction{Name: "set_mobility", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		i, err := intArg(args[0], "index")
		if err != nil {
			return nil, err
		}
		name, ok := tengo.ToString(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "mobility", Expected: "string", Found: args[1].TypeName()}
		}
		m, err := pbd.ParseMobility(name)
		if err != nil {
			return nil, err
		}
		return tengo.UndefinedValue, p.world.SetMobility(i, m)
	}}

	return &tengo.ImmutableMap{Value: values}
}

func intArg(o tengo.Object, name string) (int, error) {
	v, ok := tengo.ToInt(o)
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{Name: name, Expected: "int", Found: o.TypeName()}
	}
	return v, nil
}

func floatArg(o tengo.Object, name string) (float64, error) {
	v, ok := tengo.ToFloat64(o)
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{Name: name, Expected: "float", Found: o.TypeName()}
	}
	return v, nil
}
