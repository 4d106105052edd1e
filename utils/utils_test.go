package utils_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"recordkit/utils"
)

func TestIsInRange(t *testing.T) {
	assert.True(t, utils.IsInRange(1, 1, 15))
	assert.True(t, utils.IsInRange(int64(math.MinInt8), -128, math.MaxInt8))
	assert.False(t, utils.IsInRange(0.0, -0.5, 1.0))
}

func TestUnpack2(t *testing.T) {
	a, b := utils.Unpack2([]string{"record", "Schema.Construct", "extra"})
	assert.Equal(t, "record", a)
	assert.Equal(t, "Schema.Construct", b)

	a, b = utils.Unpack2([]string{"main"})
	assert.Equal(t, "main", a)
	assert.Empty(t, b)

	assert.Equal(t, "Construct", utils.Second("ignored", "Construct"))
}
