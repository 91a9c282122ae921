package location

import "github.com/kulturpfad/server/internal/lib/geo"

// Sample is a single raw position fix as reported by a device's location
// subsystem. It is immutable once constructed.
type Sample struct {
	Point      geo.Point `json:"point"`
	Accuracy   float32   `json:"accuracy"` // meters, >= 0
	Speed      float32   `json:"speed"`    // m/s, >= 0
	Bearing    float32   `json:"bearing"`  // degrees, meaningful only when HasBearing
	HasBearing bool      `json:"has_bearing"`
	Timestamp  int64     `json:"timestamp"` // epoch millis
	Altitude   float64   `json:"altitude"`
	Mock       bool      `json:"mock"` // provider reported a simulated fix
}

// AccuracyProfile selects how strict the accuracy gate is.
type AccuracyProfile int

const (
	// ProfileNavigation requires high accuracy for turn-by-turn guidance.
	ProfileNavigation AccuracyProfile = iota
	// ProfileNormal is the default for map display.
	ProfileNormal
	// ProfileBattery tolerates coarse fixes to save power.
	ProfileBattery
)

// MaxAccuracy returns the profile's accuracy gate threshold in meters.
func (p AccuracyProfile) MaxAccuracy() float32 {
	switch p {
	case ProfileNavigation:
		return MaxAccuracyNavigation
	case ProfileBattery:
		return MaxAccuracyBattery
	default:
		return MaxAccuracyNormal
	}
}

func (p AccuracyProfile) String() string {
	switch p {
	case ProfileNavigation:
		return "navigation"
	case ProfileBattery:
		return "battery"
	default:
		return "normal"
	}
}

// RejectionReason names the first gate a rejected sample failed.
type RejectionReason int

const (
	RejectionNone RejectionReason = iota
	AccuracyTooLow
	OutlierDetected
	SpeedTooHigh
	BearingInconsistent
	LocationTooOld
	DistanceImplausible
)

func (r RejectionReason) String() string {
	switch r {
	case RejectionNone:
		return "NONE"
	case AccuracyTooLow:
		return "ACCURACY_TOO_LOW"
	case OutlierDetected:
		return "OUTLIER_DETECTED"
	case SpeedTooHigh:
		return "SPEED_TOO_HIGH"
	case BearingInconsistent:
		return "BEARING_INCONSISTENT"
	case LocationTooOld:
		return "LOCATION_TOO_OLD"
	case DistanceImplausible:
		return "DISTANCE_IMPLAUSIBLE"
	default:
		return "UNKNOWN"
	}
}

// SignalQuality grades a fix by its reported accuracy. Larger values are
// worse; the ordering is relied on by QualityWithHistory.
type SignalQuality int

const (
	QualityExcellent SignalQuality = iota // < 5m
	QualityGood                           // < 10m
	QualityFair                           // < 20m
	QualityPoor                           // >= 20m
)

func (q SignalQuality) String() string {
	switch q {
	case QualityExcellent:
		return "EXCELLENT"
	case QualityGood:
		return "GOOD"
	case QualityFair:
		return "FAIR"
	default:
		return "POOR"
	}
}

// Verdict is the outcome of validating one sample. A rejection is an
// expected, named outcome, not an error.
type Verdict struct {
	Accepted bool            `json:"accepted"`
	Reason   RejectionReason `json:"reason"`
	Quality  SignalQuality   `json:"quality"`
	Sample   Sample          `json:"sample"`
}

// QualityForAccuracy grades signal quality from reported accuracy alone.
func QualityForAccuracy(accuracy float32) SignalQuality {
	switch {
	case accuracy < 5:
		return QualityExcellent
	case accuracy < 10:
		return QualityGood
	case accuracy < 20:
		return QualityFair
	default:
		return QualityPoor
	}
}
