package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_EmptyIsZero(t *testing.T) {
	assert.Equal(t, int32(0), Seed(""))
}

func TestSeed_KnownValues(t *testing.T) {
	// "a" = 97, "ab" = 97*31 + 98
	assert.Equal(t, int32(97), Seed("a"))
	assert.Equal(t, int32(3105), Seed("ab"))
}

func TestSeed_OrderSensitive(t *testing.T) {
	assert.NotEqual(t, Seed("AB"), Seed("BA"))
	assert.NotEqual(t, Seed("FRA-001"), Seed("FRA-002"))
}

func TestSeed_WrapsLikeInt32(t *testing.T) {
	// Both inputs overflow int32 several times.
	assert.Equal(t, int32(1796432555), Seed("MP-BALAGHAT-PARASWADA-IFR-000123456789"))
	assert.Equal(t, int32(-1127139678), Seed("FRA-OD-KORAPUT-2024-000017"))
	assert.Equal(t, int32(109755737), Seed("FRA-001"))
}

func TestRNG_NegativeSeedFirstDraw(t *testing.T) {
	r := ForKey("FRA-OD-KORAPUT-2024-000017")
	assert.Equal(t, float64(121819)/233280, r.Float64())
}

func TestSeed_UsesUTF16CodeUnits(t *testing.T) {
	// U+1F333 is a surrogate pair (0xD83C, 0xDF33).
	want := (int32(0xD83C) << 5) - int32(0xD83C) + int32(0xDF33)
	assert.Equal(t, want, Seed("\U0001F333"))
}

func TestRNG_FirstValuePinsConstants(t *testing.T) {
	r := NewRNG(1)
	assert.Equal(t, float64(58598)/233280, r.Float64())
}

func TestRNG_SecondValue(t *testing.T) {
	r := NewRNG(1)
	r.Float64()
	want := float64((58598*9301+49297)%233280) / 233280
	assert.Equal(t, want, r.Float64())
}

func TestRNG_Range(t *testing.T) {
	for _, seed := range []int32{0, 1, -1, 42, -2147483648, 2147483647, Seed("FRA-XYZ")} {
		r := NewRNG(seed)
		for i := 0; i < 5000; i++ {
			v := r.Float64()
			require.GreaterOrEqual(t, v, 0.0, "seed %d draw %d", seed, i)
			require.Less(t, v, 1.0, "seed %d draw %d", seed, i)
		}
	}
}

func TestRNG_Reproducible(t *testing.T) {
	a, b := ForKey("OD-KJR-17"), ForKey("OD-KJR-17")
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestRNG_PickBounds(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 1000; i++ {
		n := r.Pick(4)
		require.True(t, n >= 0 && n < 4)
	}
}
