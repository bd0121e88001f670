package repr

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		hints      []string
		hasLiteral bool
		expected   Resolved
	}{
		{
			name:     "no hints no literals",
			expected: Resolved{Width: I32, Emit: false, Source: SourceDefault},
		},
		{
			name:       "literal discriminant synthesizes i32 hint",
			hasLiteral: true,
			expected:   Resolved{Width: I32, Emit: true, Source: SourceLiteral},
		},
		{
			name:     "explicit width",
			hints:    []string{"i8"},
			expected: Resolved{Width: I8, Emit: true, Source: SourceExplicit},
		},
		{
			name:       "explicit width beats literal default",
			hints:      []string{"u16"},
			hasLiteral: true,
			expected:   Resolved{Width: U16, Emit: true, Source: SourceExplicit},
		},
		{
			name:     "platform alias",
			hints:    []string{"C"},
			expected: Resolved{Width: U32, Emit: true, Source: SourcePlatform},
		},
		{
			name:     "explicit width beats platform alias",
			hints:    []string{"C", "u8"},
			expected: Resolved{Width: U8, Emit: true, Source: SourceExplicit},
		},
		{
			name:     "repeated identical width",
			hints:    []string{"i64", "i64"},
			expected: Resolved{Width: I64, Emit: true, Source: SourceExplicit},
		},
		{
			name:     "go type synonym",
			hints:    []string{"uint8"},
			expected: Resolved{Width: U8, Emit: true, Source: SourceExplicit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Resolve(tt.hints, tt.hasLiteral)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolve_ConflictingWidths(t *testing.T) {
	_, err := Resolve([]string{"i8", "u8"}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflictingWidths)
	assert.Contains(t, err.Error(), "i8 and u8")
}

func TestResolve_UnknownToken(t *testing.T) {
	_, err := Resolve([]string{"packed"}, false)
	assert.ErrorIs(t, err, ErrUnknownWidth)
}

func TestWidth_Bounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		width Width
		min   string
		max   string
	}{
		{I8, "-128", "127"},
		{U8, "0", "255"},
		{I16, "-32768", "32767"},
		{U32, "0", "4294967295"},
		{I64, "-9223372036854775808", "9223372036854775807"},
		{U64, "0", "18446744073709551615"},
		{I128, "-170141183460469231731687303715884105728", "170141183460469231731687303715884105727"},
		{Usize, "0", "18446744073709551615"},
	}

	for _, tt := range tests {
		t.Run(tt.width.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.min, tt.width.Min().String())
			assert.Equal(t, tt.max, tt.width.Max().String())
		})
	}
}

func TestWidth_Contains(t *testing.T) {
	assert.True(t, I8.Contains(big.NewInt(127)))
	assert.False(t, I8.Contains(big.NewInt(128)))
	assert.True(t, I8.Contains(big.NewInt(-128)))
	assert.False(t, U8.Contains(big.NewInt(-1)))
}

func TestWidth_GoType(t *testing.T) {
	assert.Equal(t, "int32", I32.GoType())
	assert.Equal(t, "uint", Usize.GoType())
	assert.Equal(t, "int", Isize.GoType())
	assert.Empty(t, I128.GoType())
}

func TestIsHintToken(t *testing.T) {
	assert.True(t, IsHintToken("C"))
	assert.True(t, IsHintToken("u64"))
	assert.True(t, IsHintToken("int16"))
	assert.False(t, IsHintToken("packed"))
	assert.False(t, IsHintToken("transparent"))
}
