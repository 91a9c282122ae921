package elevation

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GradeStats summarizes the steepness of a profile. Grades are percentages:
// meters of elevation change per 100m of horizontal distance.
type GradeStats struct {
	MeanGrade    float64 `json:"mean_grade"`    // signed mean over all segments
	MaxGrade     float64 `json:"max_grade"`     // steepest climb
	MinGrade     float64 `json:"min_grade"`     // steepest descent (negative)
	P90AbsGrade  float64 `json:"p90_abs_grade"` // 90th percentile of |grade|
	SegmentCount int     `json:"segment_count"` // segments with nonzero length
}

// GradeStats derives per-segment grade statistics from the profile. Segments
// with zero horizontal distance are skipped; a profile with no usable
// segments yields the zero value.
func (p *Profile) GradeStats() GradeStats {
	grades := make([]float64, 0, len(p.Points))

	for i := 1; i < len(p.Points); i++ {
		run := p.Points[i].Distance - p.Points[i-1].Distance
		if run <= 0 {
			continue
		}
		rise := p.Points[i].Elevation - p.Points[i-1].Elevation
		grades = append(grades, rise/run*100)
	}

	if len(grades) == 0 {
		return GradeStats{}
	}

	maxGrade := grades[0]
	minGrade := grades[0]
	abs := make([]float64, len(grades))
	for i, g := range grades {
		if g > maxGrade {
			maxGrade = g
		}
		if g < minGrade {
			minGrade = g
		}
		if g < 0 {
			abs[i] = -g
		} else {
			abs[i] = g
		}
	}
	sort.Float64s(abs)

	return GradeStats{
		MeanGrade:    stat.Mean(grades, nil),
		MaxGrade:     maxGrade,
		MinGrade:     minGrade,
		P90AbsGrade:  stat.Quantile(0.9, stat.Empirical, abs, nil),
		SegmentCount: len(grades),
	}
}
