package node

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"

	"recordkit/primitive"
	"recordkit/utils"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
	ErrArgument             = errors.New("value does not fit caster argument")
)

type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool
}

// Func is the uniform shape every caster is adapted to. Raw values are coerced
// into the caster argument type using the allowed categories. ok=false reports
// the value as absent; a non-nil error reports it as invalid.
type Func func(raw any, allowed primitive.CategoryEnum) (value any, ok bool, err error)

// ParseCaster inspects the provided function and returns a Caster struct if it is a valid caster function.
//
// Supports interfaces:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	if fn == nil {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return Caster{}, ErrCasterIsNotAFunction
	}

	if fnType.NumIn() != 1 || fnType.NumOut() == 0 {
		return Caster{}, ErrIsNotACaster
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Ptr && src.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Ptr && dst.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	// Get the pointer to the function
	// Get the function object from the pointer
	fnPC := runtime.FuncForPC(fnVal.Pointer())
	alias, name := utils.Unpack2(strings.SplitN(utils.Second(path.Split(fnPC.Name())), ".", 2))

	caster := Caster{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: alias,
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, ErrIsNotACaster

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, ErrIsNotACaster
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case isError(last):
			caster.HasErr = true
		}
		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Caster{}, ErrIsNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true
		return caster, nil
	}
}

// String returns the qualified caster name, e.g. "store.trimName".
func (c Caster) String() string {
	if c.PackageAlias == "" {
		return c.Name
	}

	return c.PackageAlias + "." + c.Name
}

// Adapt parses fn and wraps it into a Func. A nil pointer result counts as
// absent.
func Adapt(fn any) (Func, Caster, error) {
	caster, err := ParseCaster(fn)
	if err != nil {
		return nil, Caster{}, err
	}

	fnVal := reflect.ValueOf(fn)

	return func(raw any, allowed primitive.CategoryEnum) (any, bool, error) {
		arg, err := argument(raw, caster.Src, allowed)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", caster, err)
		}

		out := fnVal.Call([]reflect.Value{arg})

		if caster.HasErr {
			if errVal := out[len(out)-1]; !errVal.IsNil() {
				return nil, false, errVal.Interface().(error)
			}
		}

		if caster.HasBool && !out[1].Bool() {
			return nil, false, nil
		}

		res := out[0]
		if res.Kind() == reflect.Ptr {
			if res.IsNil() {
				return nil, false, nil
			}

			res = res.Elem()
		}

		return res.Interface(), true, nil
	}, caster, nil
}

// argument builds the reflect value passed to a caster.
func argument(raw any, src reflect.Type, allowed primitive.CategoryEnum) (reflect.Value, error) {
	if raw == nil {
		switch src.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
			return reflect.Zero(src), nil
		default:
			return reflect.Value{}, primitive.ErrNil
		}
	}

	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(src) {
		return rv, nil
	}

	depth, target := ptrDepthAndBase(src)

	kind := primitive.FromReflectType(target)
	if kind == 0 || kind == primitive.KindPrimitiveEnum && target.Kind() != reflect.String && target.Kind() != reflect.Int {
		return reflect.Value{}, fmt.Errorf("%w: %T to %s", ErrArgument, raw, typeStr(src))
	}

	if kind == primitive.KindPrimitiveEnum {
		kind = primitive.KindString
		if target.Kind() == reflect.Int {
			kind = primitive.KindInt
		}
	}

	v, err := primitive.Coerce(raw, kind, allowed)
	if err != nil {
		return reflect.Value{}, err
	}

	val := reflect.ValueOf(v).Convert(target)
	if depth == 1 {
		ptr := reflect.New(target)
		ptr.Elem().Set(val)

		return ptr, nil
	}

	return val, nil
}
