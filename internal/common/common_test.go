package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recordkit/internal/common"
)

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "products[0].price", common.JoinPath("products", "[0]", "price"))
	assert.Equal(t, "total", common.JoinPath("", "total"))
	assert.Empty(t, common.JoinPath())
}

func TestSlices(t *testing.T) {
	assert.True(t, common.IsEmpty([]int(nil)))
	assert.False(t, common.IsEmpty([]string{"order_id"}))
	assert.True(t, common.IsSingle([]string{"a"}))
	assert.False(t, common.IsSingle([]int{1, 2}))
}
