package location

import (
	"math"
	"time"

	"github.com/kulturpfad/server/internal/lib/geo"
)

// Gate thresholds. These were tuned against the forward-projection outlier
// check below; treat them as a set.
const (
	MaxAccuracyNavigation float32 = 10 // meters
	MaxAccuracyNormal     float32 = 20 // meters
	MaxAccuracyBattery    float32 = 50 // meters

	MaxOutlierDeviation  float64 = 100  // meters from the projected position
	MaxSpeedKmh          float32 = 200  // km/h
	MaxSampleAgeMillis   int64   = 5000 // ms
	MaxBearingChange     float32 = 90   // degrees per update
	MaxDistancePerUpdate float64 = 500  // meters between updates

	// Outlier projection is skipped outside this time window or when the
	// previous fix predicts less than a meter of travel.
	maxProjectionWindowSeconds = 10
	minProjectedDistanceMeters = 1
)

// Validator classifies raw position samples with multi-criteria filtering.
// It is stateless; callers feed each new sample together with the last
// sample they accepted, one at a time per position stream.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a Validator using the wall clock for the staleness gate.
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorWithClock creates a Validator with an injected clock.
func NewValidatorWithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// Validate classifies a sample against the previously accepted one. Gates run
// in a fixed order and the first failing gate names the rejection, so
// diagnostics are deterministic. A nil previous sample accepts any fix that
// passes the accuracy and staleness gates.
func (v *Validator) Validate(current Sample, previous *Sample, profile AccuracyProfile) Verdict {
	quality := QualityForAccuracy(current.Accuracy)

	// 1. Accuracy gate
	if current.Accuracy > profile.MaxAccuracy() {
		return reject(current, AccuracyTooLow, quality)
	}

	// 2. Staleness gate
	age := v.now().UnixMilli() - current.Timestamp
	if age > MaxSampleAgeMillis {
		return reject(current, LocationTooOld, quality)
	}

	// No reference fix: nothing further to compare against.
	if previous == nil {
		return accept(current, quality)
	}

	// 3. Speed gate
	if current.Speed*3.6 > MaxSpeedKmh {
		return reject(current, SpeedTooHigh, quality)
	}

	// 4. Distance plausibility gate
	if geo.Distance(previous.Point, current.Point) > MaxDistancePerUpdate {
		return reject(current, DistanceImplausible, quality)
	}

	// 5. Outlier ("spring") gate
	if isOutlier(current, *previous) {
		return reject(current, OutlierDetected, quality)
	}

	// 6. Bearing consistency gate
	if isBearingInconsistent(current, *previous) {
		return reject(current, BearingInconsistent, quality)
	}

	return accept(current, quality)
}

// isOutlier projects the previous fix forward along its own speed and bearing
// and flags the current fix when it lands too far from that prediction. This
// is a deliberately simple dead-reckoning check, not a Kalman filter.
func isOutlier(current, previous Sample) bool {
	deltaSeconds := float64(current.Timestamp-previous.Timestamp) / 1000.0
	if deltaSeconds <= 0 || deltaSeconds > maxProjectionWindowSeconds {
		return false
	}

	projected := float64(previous.Speed) * deltaSeconds
	if projected < minProjectedDistanceMeters || !previous.HasBearing {
		return false
	}

	expected := geo.Destination(previous.Point, float64(previous.Bearing), projected)
	deviation := geo.Distance(current.Point, expected)

	maxDeviation := MaxOutlierDeviation +
		math.Max(float64(current.Accuracy), float64(previous.Accuracy))

	return deviation > maxDeviation
}

// isBearingInconsistent flags a heading change larger than MaxBearingChange,
// measured as the minimal circular difference so the 360/0 wraparound does
// not produce false positives.
func isBearingInconsistent(current, previous Sample) bool {
	if !current.HasBearing || !previous.HasBearing {
		return false
	}

	a := normalizeBearing(current.Bearing)
	b := normalizeBearing(previous.Bearing)

	change := float32(math.Abs(float64(a - b)))
	if 360-change < change {
		change = 360 - change
	}

	return change > MaxBearingChange
}

func normalizeBearing(bearing float32) float32 {
	normalized := float32(math.Mod(float64(bearing), 360))
	if normalized < 0 {
		normalized += 360
	}
	return normalized
}

// QualityWithHistory grades the current fix conservatively: the worse of its
// own accuracy grade and the grade of the mean accuracy over the last five
// historical samples.
func QualityWithHistory(current Sample, history []Sample) SignalQuality {
	base := QualityForAccuracy(current.Accuracy)
	if len(history) == 0 {
		return base
	}

	recent := history
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	var sum float32
	for _, s := range recent {
		sum += s.Accuracy
	}
	avg := QualityForAccuracy(sum / float32(len(recent)))

	if avg > base {
		return avg
	}
	return base
}

func accept(sample Sample, quality SignalQuality) Verdict {
	return Verdict{
		Accepted: true,
		Reason:   RejectionNone,
		Quality:  quality,
		Sample:   sample,
	}
}

func reject(sample Sample, reason RejectionReason, quality SignalQuality) Verdict {
	return Verdict{
		Accepted: false,
		Reason:   reason,
		Quality:  quality,
		Sample:   sample,
	}
}
