package primitive_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordkit/primitive"
)

const lax = primitive.CategorySafeNumber | primitive.CategoryExactNumber | primitive.CategoryTextNumber |
	primitive.CategoryNumericBool | primitive.CategoryTextualBool | primitive.CategoryDatetime |
	primitive.CategoryDuration

func TestCoerce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     any
		to      primitive.KindEnum
		allowed primitive.CategoryEnum
		want    any
		wantErr error
	}{
		{"identity int", 5, primitive.KindInt, primitive.CategoryNone, 5, nil},
		{"identity string", "a", primitive.KindString, primitive.CategoryNone, "a", nil},
		{"safe widening", int8(5), primitive.KindInt64, primitive.CategorySafeNumber, int64(5), nil},
		{"widening not allowed", int8(5), primitive.KindInt64, primitive.CategoryNone, nil, primitive.ErrNotAllowed},
		{"text to int", "2", primitive.KindInt, primitive.CategoryTextNumber, 2, nil},
		{"text with spaces", " 42 ", primitive.KindInt, primitive.CategoryTextNumber, 42, nil},
		{"bad text", "two", primitive.KindInt, primitive.CategoryTextNumber, nil, primitive.ErrSyntax},
		{"fraction text to int", "2.5", primitive.KindInt, primitive.CategoryTextNumber, nil, primitive.ErrSyntax},
		{"text overflow", "300", primitive.KindInt8, primitive.CategoryTextNumber, nil, primitive.ErrOutOfRange},
		{"text to float", "7.5", primitive.KindFloat64, primitive.CategoryTextNumber, 7.5, nil},
		{"int to float exact", 20, primitive.KindFloat64, primitive.CategoryExactNumber, 20.0, nil},
		{"float to int exact", 2.0, primitive.KindInt, primitive.CategoryExactNumber, 2, nil},
		{"float to int inexact", 2.7, primitive.KindInt, primitive.CategoryExactNumber, nil, primitive.ErrInexact},
		{"float to int truncated", 2.7, primitive.KindInt, primitive.CategoryUnsafeNumber, 2, nil},
		{"negative to unsigned", -1, primitive.KindUint, primitive.CategoryUnsafeNumber, nil, primitive.ErrOutOfRange},
		{"narrowing overflow", 300, primitive.KindInt8, primitive.CategoryUnsafeNumber, nil, primitive.ErrOutOfRange},
		{"nan to int", math.NaN(), primitive.KindInt, primitive.CategoryUnsafeNumber, nil, primitive.ErrOutOfRange},
		{"nan to float", math.NaN(), primitive.KindFloat64, primitive.CategoryNone, nil, primitive.ErrOutOfRange},
		{"inf to float32", math.Inf(1), primitive.KindFloat32, primitive.CategoryAll, nil, primitive.ErrOutOfRange},
		{"nan text to float", "NaN", primitive.KindFloat64, primitive.CategoryTextNumber, nil, primitive.ErrOutOfRange},
		{"int to text", 12, primitive.KindString, primitive.CategoryTextNumber, "12", nil},
		{"float to text", 7.5, primitive.KindString, primitive.CategoryTextNumber, "7.5", nil},
		{"bool to int", true, primitive.KindInt, primitive.CategoryNumericBool, 1, nil},
		{"int to bool", 0, primitive.KindBool, primitive.CategoryNumericBool, false, nil},
		{"int 2 to bool", 2, primitive.KindBool, primitive.CategoryNumericBool, nil, primitive.ErrOutOfRange},
		{"text to bool", "Yes", primitive.KindBool, primitive.CategoryTextualBool, true, nil},
		{"bad text bool", "maybe", primitive.KindBool, primitive.CategoryTextualBool, nil, primitive.ErrSyntax},
		{"text to duration", "2h45m", primitive.KindDuration, primitive.CategoryDuration, 2*time.Hour + 45*time.Minute, nil},
		{"seconds to duration", 1.5, primitive.KindDuration, primitive.CategorySeconds, 1500 * time.Millisecond, nil},
		{"struct unsupported", struct{}{}, primitive.KindInt, primitive.CategoryAll, nil, primitive.ErrUnsupported},
		{"nil", nil, primitive.KindInt, primitive.CategoryAll, nil, primitive.ErrNil},
		{"nil pointer", (*int)(nil), primitive.KindInt, primitive.CategoryAll, nil, primitive.ErrNil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := primitive.Coerce(tt.raw, tt.to, tt.allowed)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoercePointersAndEnums(t *testing.T) {
	t.Parallel()

	type Status string

	n := 7
	got, err := primitive.Coerce(&n, primitive.KindInt, primitive.CategoryNone)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	got, err = primitive.Coerce(Status("paid"), primitive.KindString, primitive.CategoryNone)
	require.NoError(t, err)
	assert.Equal(t, "paid", got)
}

func TestCoerceTime(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	got, err := primitive.Coerce("2024-05-01T12:30:00Z", primitive.KindTime, primitive.CategoryDatetime)
	require.NoError(t, err)
	assert.True(t, ts.Equal(got.(time.Time)))

	got, err = primitive.Coerce(ts.Unix(), primitive.KindTime, primitive.CategoryTimestamp)
	require.NoError(t, err)
	assert.True(t, ts.Equal(got.(time.Time)))

	got, err = primitive.Coerce(ts, primitive.KindString, lax)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T12:30:00Z", got)
}

func TestConversionError(t *testing.T) {
	t.Parallel()

	_, err := primitive.Coerce("x", primitive.KindInt, primitive.CategoryNone)

	var convErr *primitive.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, primitive.KindString, convErr.From)
	assert.Equal(t, primitive.KindInt, convErr.To)
	assert.Contains(t, err.Error(), "cannot convert x (KindString) to KindInt")
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	assert.True(t, primitive.Allowed(primitive.ConversionPair{From: primitive.KindBool, To: primitive.KindBool}, primitive.CategoryNone))
	assert.True(t, primitive.Allowed(primitive.ConversionPair{From: primitive.KindString, To: primitive.KindInt}, lax))
	assert.False(t, primitive.Allowed(primitive.ConversionPair{From: primitive.KindFloat64, To: primitive.KindInt}, primitive.CategorySafeNumber))
}
