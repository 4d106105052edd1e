package node_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"recordkit/node"
)

func TestDispatch(t *testing.T) {
	type product struct{ Price float64 }

	tests := []struct {
		name string
		in   any
		want node.DispatcherEnum
	}{
		{"nil", nil, node.DispatcherUnknown},
		{"int", 1, node.DispatcherPrimitive},
		{"pointer to string", new(string), node.DispatcherPrimitive},
		{"time", time.Time{}, node.DispatcherPrimitive},
		{"slice", []any{1}, node.DispatcherSlice},
		{"array", [2]int{}, node.DispatcherSlice},
		{"map", map[string]any{}, node.DispatcherMap},
		{"int keyed map", map[int]any{}, node.DispatcherUnknown},
		{"struct", product{}, node.DispatcherStruct},
		{"func", func() {}, node.DispatcherUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, node.DispatchValue(tt.in))
		})
	}

	assert.Equal(t, node.DispatcherInterface, node.Dispatch(reflect.TypeFor[any]()))
}

func TestElementsAndEntries(t *testing.T) {
	items, ok := node.Elements([]int{1, 2})
	assert.True(t, ok)
	assert.Equal(t, []any{1, 2}, items)

	items, ok = node.Elements([]string(nil))
	assert.True(t, ok)
	assert.Empty(t, items)

	_, ok = node.Elements("abc")
	assert.False(t, ok)

	entries, ok := node.Entries(map[string]int{"a": 1})
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"a": 1}, entries)

	_, ok = node.Entries(map[int]int{1: 1})
	assert.False(t, ok)
}
