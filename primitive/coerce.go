package primitive

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"recordkit/utils"
)

var (
	ErrNil         = errors.New("no value")
	ErrNotAllowed  = errors.New("conversion is not allowed")
	ErrSyntax      = errors.New("invalid syntax")
	ErrInexact     = errors.New("value cannot be represented exactly")
	ErrOutOfRange  = errors.New("value out of range")
	ErrUnsupported = errors.New("unsupported kind")
)

// ConversionError describes a failed Coerce call.
type ConversionError struct {
	From, To KindEnum
	Value    any
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %v (%s) to %s: %v", e.Value, e.From, e.To, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Coerce converts raw into the canonical Go type of the requested kind, using only
// conversions from the allowed categories. Pointers are dereferenced; nil raw values
// and nil pointers report ErrNil.
func Coerce(raw any, to KindEnum, allowed CategoryEnum) (any, error) {
	if raw == nil {
		return nil, ErrNil
	}

	v := reflect.ValueOf(raw)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, ErrNil
		}

		v = v.Elem()
	}

	from := FromReflectType(v.Type())
	if from == KindPrimitiveEnum {
		v, from = underlying(v)
	}

	fail := func(err error) (any, error) {
		return nil, &ConversionError{From: from, To: to, Value: v.Interface(), Err: err}
	}

	if from == 0 || !to.IsScalar() {
		return fail(ErrUnsupported)
	}

	pair := ConversionPair{From: from, To: to}
	if !Allowed(pair, allowed) {
		return fail(ErrNotAllowed)
	}

	res, err := convert(v, pair, lossy(pair, allowed))
	if err == nil && to.IsFloat() && !finite(res) {
		err = ErrOutOfRange
	}

	if err != nil {
		return fail(err)
	}

	return res, nil
}

// finite reports whether a float result is neither NaN nor infinite.
func finite(v any) bool {
	f := reflect.ValueOf(v).Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// underlying strips a named int or string type down to its basic kind.
func underlying(v reflect.Value) (reflect.Value, KindEnum) {
	switch v.Kind() {
	case reflect.String:
		return reflect.ValueOf(v.String()), KindString
	case reflect.Int:
		return reflect.ValueOf(int(v.Int())), KindInt
	default:
		return v, 0
	}
}

func convert(v reflect.Value, pair ConversionPair, lossy bool) (any, error) {
	if pair.From == pair.To {
		return v.Convert(ReflectType(pair.To)).Interface(), nil
	}

	to := pair.To

	switch {
	case to.IsNumber():
		n, err := toNumber(v, pair.From, to)
		if err != nil {
			return nil, err
		}

		return n.as(to, lossy)
	case to == KindString:
		return formatText(v, pair.From)
	case to == KindBool:
		return toBool(v, pair.From)
	case to == KindTime:
		return toTime(v, pair.From)
	case to == KindDuration:
		return toDuration(v, pair.From)
	default:
		return nil, ErrUnsupported
	}
}

// number is an intermediate holder wide enough for every numeric kind.
type number struct {
	i     int64
	u     uint64
	f     float64
	class byte // 'i', 'u' or 'f'
}

func toNumber(v reflect.Value, from, to KindEnum) (number, error) {
	switch {
	case from.IsSigned():
		return number{i: v.Int(), class: 'i'}, nil
	case from.IsUnsigned():
		return number{u: v.Uint(), class: 'u'}, nil
	case from.IsFloat():
		return number{f: v.Float(), class: 'f'}, nil
	case from == KindBool:
		if v.Bool() {
			return number{i: 1, class: 'i'}, nil
		}

		return number{class: 'i'}, nil
	case from == KindTime:
		return number{i: v.Interface().(time.Time).Unix(), class: 'i'}, nil
	case from == KindDuration:
		d := time.Duration(v.Int())
		if to.IsFloat() {
			return number{f: d.Seconds(), class: 'f'}, nil
		}

		return number{i: int64(d), class: 'i'}, nil
	case from == KindString:
		return parseNumber(strings.TrimSpace(v.String()), to)
	default:
		return number{}, ErrUnsupported
	}
}

func parseNumber(s string, to KindEnum) (number, error) {
	var (
		n   number
		err error
	)

	switch {
	case to.IsSigned():
		n.class = 'i'
		n.i, err = strconv.ParseInt(s, 10, 64)
	case to.IsUnsigned():
		n.class = 'u'
		n.u, err = strconv.ParseUint(s, 10, 64)
	default:
		n.class = 'f'
		n.f, err = strconv.ParseFloat(s, 64)
	}

	if errors.Is(err, strconv.ErrRange) {
		return n, ErrOutOfRange
	}

	if err != nil {
		return n, ErrSyntax
	}

	return n, nil
}

// as narrows the number into the target kind. Integer targets truncate fractions
// only when lossy conversions are allowed.
func (n number) as(to KindEnum, lossy bool) (any, error) {
	rt := ReflectType(to)
	out := reflect.New(rt).Elem()

	switch {
	case to.IsSigned():
		i, err := n.signed(to.Bits(), lossy)
		if err != nil {
			return nil, err
		}

		out.SetInt(i)
	case to.IsUnsigned():
		u, err := n.unsigned(to.Bits(), lossy)
		if err != nil {
			return nil, err
		}

		out.SetUint(u)
	default:
		f := n.float()
		if to == KindFloat32 && !math.IsInf(f, 0) && !math.IsNaN(f) {
			if math.Abs(f) > math.MaxFloat32 {
				return nil, ErrOutOfRange
			}

			if !lossy && float64(float32(f)) != f {
				return nil, ErrInexact
			}
		}

		if !lossy && n.class == 'i' && int64(f) != n.i {
			return nil, ErrInexact
		}

		if !lossy && n.class == 'u' && uint64(f) != n.u {
			return nil, ErrInexact
		}

		out.SetFloat(f)
	}

	return out.Interface(), nil
}

func (n number) float() float64 {
	switch n.class {
	case 'i':
		return float64(n.i)
	case 'u':
		return float64(n.u)
	default:
		return n.f
	}
}

func (n number) signed(bits int, lossy bool) (int64, error) {
	lo, hi := int64(math.MinInt64)>>(64-bits), int64(math.MaxInt64)>>(64-bits)

	switch n.class {
	case 'i':
		if !utils.IsInRange(lo, n.i, hi) {
			return 0, ErrOutOfRange
		}

		return n.i, nil
	case 'u':
		if n.u > uint64(hi) {
			return 0, ErrOutOfRange
		}

		return int64(n.u), nil
	default:
		t, err := truncate(n.f, lossy)
		if err != nil {
			return 0, err
		}

		if t < float64(lo) || t >= -float64(lo) {
			return 0, ErrOutOfRange
		}

		return int64(t), nil
	}
}

func (n number) unsigned(bits int, lossy bool) (uint64, error) {
	hi := uint64(math.MaxUint64) >> (64 - bits)

	switch n.class {
	case 'i':
		if n.i < 0 || uint64(n.i) > hi {
			return 0, ErrOutOfRange
		}

		return uint64(n.i), nil
	case 'u':
		if n.u > hi {
			return 0, ErrOutOfRange
		}

		return n.u, nil
	default:
		t, err := truncate(n.f, lossy)
		if err != nil {
			return 0, err
		}

		if t < 0 || t >= math.Ldexp(1, bits) {
			return 0, ErrOutOfRange
		}

		return uint64(t), nil
	}
}

func truncate(f float64, lossy bool) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrOutOfRange
	}

	t := math.Trunc(f)
	if t != f && !lossy {
		return 0, ErrInexact
	}

	return t, nil
}

func formatText(v reflect.Value, from KindEnum) (string, error) {
	switch {
	case from.IsSigned():
		return strconv.FormatInt(v.Int(), 10), nil
	case from.IsUnsigned():
		return strconv.FormatUint(v.Uint(), 10), nil
	case from.IsFloat():
		return strconv.FormatFloat(v.Float(), 'f', -1, from.Bits()), nil
	case from == KindBool:
		return strconv.FormatBool(v.Bool()), nil
	case from == KindTime:
		return v.Interface().(time.Time).Format(time.RFC3339Nano), nil
	case from == KindDuration:
		return time.Duration(v.Int()).String(), nil
	default:
		return "", ErrUnsupported
	}
}

func toBool(v reflect.Value, from KindEnum) (bool, error) {
	switch {
	case from.IsInteger():
		n, err := toNumber(v, from, KindInt64)
		if err != nil {
			return false, err
		}

		i, err := n.signed(64, false)
		if err != nil {
			return false, err
		}

		switch i {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return false, ErrOutOfRange
		}
	case from == KindString:
		switch strings.ToLower(strings.TrimSpace(v.String())) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		default:
			return false, ErrSyntax
		}
	default:
		return false, ErrUnsupported
	}
}

func toTime(v reflect.Value, from KindEnum) (time.Time, error) {
	switch {
	case from == KindString:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v.String()))
		if err != nil {
			return time.Time{}, ErrSyntax
		}

		return t, nil
	case from.IsInteger():
		n, err := toNumber(v, from, KindInt64)
		if err != nil {
			return time.Time{}, err
		}

		sec, err := n.signed(64, false)
		if err != nil {
			return time.Time{}, err
		}

		return time.Unix(sec, 0).UTC(), nil
	default:
		return time.Time{}, ErrUnsupported
	}
}

func toDuration(v reflect.Value, from KindEnum) (time.Duration, error) {
	switch {
	case from == KindString:
		d, err := time.ParseDuration(strings.TrimSpace(v.String()))
		if err != nil {
			return 0, ErrSyntax
		}

		return d, nil
	case from.IsInteger():
		n, err := toNumber(v, from, KindInt64)
		if err != nil {
			return 0, err
		}

		ns, err := n.signed(64, false)
		if err != nil {
			return 0, err
		}

		return time.Duration(ns), nil
	case from.IsFloat():
		sec := v.Float() * float64(time.Second)
		if math.IsNaN(sec) || math.Abs(sec) >= math.MaxInt64 {
			return 0, ErrOutOfRange
		}

		return time.Duration(sec), nil
	default:
		return 0, ErrUnsupported
	}
}
