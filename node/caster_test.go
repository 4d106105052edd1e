package node_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordkit/node"
	"recordkit/primitive"
)

type moreThanError interface {
	error
	More()
}

func empty()                          { panic("not implemented") }
func wrong(int) (string, error, bool) { panic("not implemented") }

func full(int) (string, bool, error)          { panic("not implemented") }
func customError(int) (string, moreThanError) { panic("not implemented") }

func ExampleCaster() {
	desc, err := node.ParseCaster(full)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(strconv.Itoa)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(strconv.Atoi)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(customError)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	_, err = node.ParseCaster(empty)
	fmt.Println(err)

	_, err = node.ParseCaster(wrong)
	fmt.Println(err)

	// Output:
	// <nil> node_test full int string true true
	// <nil> strconv Itoa int string false false
	// <nil> strconv Atoi string int false true
	// <nil> node_test customError int string false true
	// provided function is not a recognizable caster
	// provided function is not a recognizable caster
}

func trimmed(s string) (string, bool) {
	s = strings.TrimSpace(s)

	return s, s != ""
}

func positive(n int) (*int, error) {
	if n < 0 {
		return nil, errors.New("negative")
	}

	if n == 0 {
		return nil, nil
	}

	return &n, nil
}

func TestAdapt(t *testing.T) {
	t.Run("bool result", func(t *testing.T) {
		fn, caster, err := node.Adapt(trimmed)
		require.NoError(t, err)
		assert.Equal(t, "node_test.trimmed", caster.String())

		v, ok, err := fn("  bob ", primitive.CategorySafeNumber)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "bob", v)

		_, ok, err = fn("   ", primitive.CategorySafeNumber)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("argument coercion", func(t *testing.T) {
		fn, _, err := node.Adapt(strconv.Itoa)
		require.NoError(t, err)

		lax := primitive.CategorySafeNumber | primitive.CategoryTextNumber

		v, ok, err := fn(int8(7), lax)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "7", v)

		v, ok, err = fn("42", lax)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "42", v)

		_, _, err = fn("42", primitive.CategorySafeNumber)
		require.ErrorIs(t, err, primitive.ErrNotAllowed)

		_, _, err = fn("forty", lax)
		require.ErrorIs(t, err, primitive.ErrSyntax)
	})

	t.Run("pointer result and error", func(t *testing.T) {
		fn, _, err := node.Adapt(positive)
		require.NoError(t, err)

		v, ok, err := fn(3, primitive.CategorySafeNumber)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, v)

		_, ok, err = fn(0, primitive.CategorySafeNumber)
		require.NoError(t, err)
		assert.False(t, ok)

		_, _, err = fn(-1, primitive.CategorySafeNumber)
		require.EqualError(t, err, "negative")

		_, _, err = fn(nil, primitive.CategorySafeNumber)
		require.ErrorIs(t, err, primitive.ErrNil)
	})

	t.Run("not a caster", func(t *testing.T) {
		_, _, err := node.Adapt(42)
		require.ErrorIs(t, err, node.ErrCasterIsNotAFunction)

		_, _, err = node.Adapt(empty)
		require.ErrorIs(t, err, node.ErrIsNotACaster)
	})
}
