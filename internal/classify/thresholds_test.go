package classify

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultThresholdsValid(t *testing.T) {
	require.NoError(t, DefaultThresholds().Validate())
}

func TestWithDefaults(t *testing.T) {
	got := Thresholds{Circularity: 0.9, MinEdgePixels: 10}.WithDefaults()
	want := DefaultThresholds()
	want.Circularity = 0.9
	want.MinEdgePixels = 10
	assert.Equal(t, want, got)

	assert.Equal(t, DefaultThresholds(), Thresholds{}.WithDefaults())
}

func TestOverride(t *testing.T) {
	base := DefaultThresholds()
	base.Aspect = 0.3

	got := base.Override(Thresholds{DiagEnergy: 0.6})
	assert.Equal(t, 0.3, got.Aspect)
	assert.Equal(t, 0.6, got.DiagEnergy)
	assert.Equal(t, base.MinEdgePixels, got.MinEdgePixels)
	assert.Equal(t, base, base.Override(Thresholds{}))
}

func TestOverridesApply(t *testing.T) {
	var o Overrides
	require.NoError(t, json.Unmarshal([]byte(`{"empty_white_ratio": 0, "min_edge_pixels": 12}`), &o))

	got := o.Apply(DefaultThresholds())
	want := DefaultThresholds()
	want.EmptyWhiteRatio = 0
	want.MinEdgePixels = 12
	assert.Equal(t, want, got)
	require.NoError(t, got.Validate())

	assert.Equal(t, DefaultThresholds(), Overrides{}.Apply(DefaultThresholds()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Thresholds)
		wantErr string
	}{
		{"negative ratio", func(th *Thresholds) { th.EmptyWhiteRatio = -0.1 }, "empty_white_ratio"},
		{"share above one", func(th *Thresholds) { th.DiagEnergy = 1.5 }, "diag_energy"},
		{"negative aspect", func(th *Thresholds) { th.Aspect = -0.1 }, "aspect"},
		{"NaN ratio", func(th *Thresholds) { th.EmptyWhiteRatio = math.NaN() }, "empty_white_ratio"},
		{"zero aspect", func(th *Thresholds) { th.Aspect = 0 }, ""},
		{"zero ratio", func(th *Thresholds) { th.EmptyWhiteRatio = 0 }, ""},
		{"zero edge pixels", func(th *Thresholds) { th.MinEdgePixels = 0 }, "min_edge_pixels"},
		{"share of one", func(th *Thresholds) { th.MaxAxisShare = 1 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := DefaultThresholds()
			tt.mutate(&th)
			err := th.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestThresholdsFromEnv(t *testing.T) {
	t.Run("unset keeps base", func(t *testing.T) {
		got, err := ThresholdsFromEnv(DefaultThresholds())
		require.NoError(t, err)
		assert.Equal(t, DefaultThresholds(), got)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv(EnvEmptyWhiteRatio, "0.05")
		t.Setenv(EnvCircularity, "0.8")
		got, err := ThresholdsFromEnv(DefaultThresholds())
		require.NoError(t, err)
		assert.Equal(t, 0.05, got.EmptyWhiteRatio)
		assert.Equal(t, 0.8, got.Circularity)
		assert.Equal(t, DefaultThresholds().Aspect, got.Aspect)
	})

	t.Run("explicit zero", func(t *testing.T) {
		t.Setenv(EnvEmptyWhiteRatio, "0")
		got, err := ThresholdsFromEnv(DefaultThresholds())
		require.NoError(t, err)
		assert.Zero(t, got.EmptyWhiteRatio)
	})

	t.Run("not a number", func(t *testing.T) {
		t.Setenv(EnvAspect, "wide")
		got, err := ThresholdsFromEnv(DefaultThresholds())
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvAspect)
		assert.Equal(t, DefaultThresholds(), got)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Setenv(EnvDiagEnergy, "2")
		_, err := ThresholdsFromEnv(DefaultThresholds())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "diag_energy")
	})
}
