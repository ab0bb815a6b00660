package classify

import (
	"fmt"
	"os"
	"strconv"
)

// Thresholds holds the tunable constants of the cell heuristics.
//
// A zero field means "use the default" when passed through WithDefaults or
// New, so a struct literal cannot set a threshold to zero. To do that, start
// from DefaultThresholds and build with NewExact, or apply an Overrides.
type Thresholds struct {
	// EmptyWhiteRatio is the ink fraction below which a cell is Empty.
	EmptyWhiteRatio float64 `json:"empty_white_ratio,omitempty"`

	// MinContourAreaFrac is the smallest contour area, as a fraction of the
	// region area, considered by the ring detector.
	MinContourAreaFrac float64 `json:"min_contour_area_frac,omitempty"`

	// FilledAreaFrac is the area fraction above which a round contour counts
	// as a ring even without a hole (a heavily inked O).
	FilledAreaFrac float64 `json:"filled_area_frac,omitempty"`

	// Circularity is the minimum 4πA/P² of a ring contour.
	Circularity float64 `json:"circularity,omitempty"`

	// Aspect is the maximum |1 - w/h| of a ring contour's bounding box.
	Aspect float64 `json:"aspect,omitempty"`

	// DiagEnergy is the minimum combined share of gradient energy in the
	// 45° and 135° bins for a cross.
	DiagEnergy float64 `json:"diag_energy,omitempty"`

	// BothDiagMinShare is the minimum share each diagonal bin must hold on
	// its own.
	BothDiagMinShare float64 `json:"both_diag_min_share,omitempty"`

	// MaxAxisShare is the share neither the 0° nor the 90° bin may reach.
	MaxAxisShare float64 `json:"max_axis_share,omitempty"`

	// MinEdgePixels is the minimum number of strong-gradient pixels the
	// orientation detector needs.
	MinEdgePixels int `json:"min_edge_pixels,omitempty"`
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EmptyWhiteRatio:    0.03,
		MinContourAreaFrac: 0.04,
		FilledAreaFrac:     0.08,
		Circularity:        0.70,
		Aspect:             0.25,
		DiagEnergy:         0.55,
		BothDiagMinShare:   0.18,
		MaxAxisShare:       0.28,
		MinEdgePixels:      50,
	}
}

// WithDefaults returns a copy of t with every zero field replaced by its
// default.
func (t Thresholds) WithDefaults() Thresholds {
	return DefaultThresholds().Override(t)
}

// Override returns t with every non-zero field of o copied over it.
func (t Thresholds) Override(o Thresholds) Thresholds {
	pick := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	pick(&t.EmptyWhiteRatio, o.EmptyWhiteRatio)
	pick(&t.MinContourAreaFrac, o.MinContourAreaFrac)
	pick(&t.FilledAreaFrac, o.FilledAreaFrac)
	pick(&t.Circularity, o.Circularity)
	pick(&t.Aspect, o.Aspect)
	pick(&t.DiagEnergy, o.DiagEnergy)
	pick(&t.BothDiagMinShare, o.BothDiagMinShare)
	pick(&t.MaxAxisShare, o.MaxAxisShare)
	if o.MinEdgePixels != 0 {
		t.MinEdgePixels = o.MinEdgePixels
	}
	return t
}

// Overrides is a partial threshold set decoded from tool arguments. Nil
// fields keep the base value; unlike Thresholds, an explicit zero is an
// override.
type Overrides struct {
	EmptyWhiteRatio    *float64 `json:"empty_white_ratio,omitempty"`
	MinContourAreaFrac *float64 `json:"min_contour_area_frac,omitempty"`
	FilledAreaFrac     *float64 `json:"filled_area_frac,omitempty"`
	Circularity        *float64 `json:"circularity,omitempty"`
	Aspect             *float64 `json:"aspect,omitempty"`
	DiagEnergy         *float64 `json:"diag_energy,omitempty"`
	BothDiagMinShare   *float64 `json:"both_diag_min_share,omitempty"`
	MaxAxisShare       *float64 `json:"max_axis_share,omitempty"`
	MinEdgePixels      *int     `json:"min_edge_pixels,omitempty"`
}

// Apply returns base with every set field of o copied over it.
func (o Overrides) Apply(base Thresholds) Thresholds {
	t := base
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&t.EmptyWhiteRatio, o.EmptyWhiteRatio)
	set(&t.MinContourAreaFrac, o.MinContourAreaFrac)
	set(&t.FilledAreaFrac, o.FilledAreaFrac)
	set(&t.Circularity, o.Circularity)
	set(&t.Aspect, o.Aspect)
	set(&t.DiagEnergy, o.DiagEnergy)
	set(&t.BothDiagMinShare, o.BothDiagMinShare)
	set(&t.MaxAxisShare, o.MaxAxisShare)
	if o.MinEdgePixels != nil {
		t.MinEdgePixels = *o.MinEdgePixels
	}
	return t
}

// Validate reports the first field outside its allowed range. Fractions and
// shares must lie in [0, 1], Aspect must not be negative and MinEdgePixels
// must be at least 1. A zero fraction disables its test; EmptyWhiteRatio=0
// sends every cell through the detectors.
func (t Thresholds) Validate() error {
	fracs := []struct {
		name string
		v    float64
	}{
		{"empty_white_ratio", t.EmptyWhiteRatio},
		{"min_contour_area_frac", t.MinContourAreaFrac},
		{"filled_area_frac", t.FilledAreaFrac},
		{"circularity", t.Circularity},
		{"diag_energy", t.DiagEnergy},
		{"both_diag_min_share", t.BothDiagMinShare},
		{"max_axis_share", t.MaxAxisShare},
	}
	for _, f := range fracs {
		if !(f.v >= 0 && f.v <= 1) {
			return fmt.Errorf("threshold %s=%v outside [0, 1]", f.name, f.v)
		}
	}
	if !(t.Aspect >= 0) {
		return fmt.Errorf("threshold aspect=%v must not be negative", t.Aspect)
	}
	if t.MinEdgePixels < 1 {
		return fmt.Errorf("threshold min_edge_pixels=%d must be at least 1", t.MinEdgePixels)
	}
	return nil
}

// Environment variables read by ThresholdsFromEnv.
const (
	EnvEmptyWhiteRatio    = "TTT_EMPTY_WHITE_RATIO"
	EnvMinContourAreaFrac = "TTT_MIN_CONTOUR_AREA_FRAC"
	EnvFilledAreaFrac     = "TTT_FILLED_AREA_FRAC"
	EnvCircularity        = "TTT_CIRCULARITY"
	EnvAspect             = "TTT_ASPECT"
	EnvDiagEnergy         = "TTT_DIAG_ENERGY"
	EnvBothDiagMinShare   = "TTT_BOTH_DIAG_MIN_SHARE"
	EnvMaxAxisShare       = "TTT_MAX_AXIS_SHARE"
)

// ThresholdsFromEnv overlays the TTT_* environment variables on base and
// validates the result. Unset variables leave the base value in place.
func ThresholdsFromEnv(base Thresholds) (Thresholds, error) {
	t := base
	fields := []struct {
		env string
		dst *float64
	}{
		{EnvEmptyWhiteRatio, &t.EmptyWhiteRatio},
		{EnvMinContourAreaFrac, &t.MinContourAreaFrac},
		{EnvFilledAreaFrac, &t.FilledAreaFrac},
		{EnvCircularity, &t.Circularity},
		{EnvAspect, &t.Aspect},
		{EnvDiagEnergy, &t.DiagEnergy},
		{EnvBothDiagMinShare, &t.BothDiagMinShare},
		{EnvMaxAxisShare, &t.MaxAxisShare},
	}
	for _, f := range fields {
		raw, ok := os.LookupEnv(f.env)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return base, fmt.Errorf("invalid %s: %w", f.env, err)
		}
		*f.dst = v
	}
	if err := t.Validate(); err != nil {
		return base, fmt.Errorf("invalid threshold environment: %w", err)
	}
	return t, nil
}
