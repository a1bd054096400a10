package models

import (
	"strconv"
)

type Prediction string

const (
	PredictionSafe     Prediction = "safe"
	PredictionPhishing Prediction = "phishing"
)

// IsSafe reports whether the verdict is the single positive case. Anything
// that is not "safe" is treated as phishing.
func (p Prediction) IsSafe() bool {
	return p == PredictionSafe
}

type GroupName string

const (
	GroupSecurityMetrics    GroupName = "security_metrics"
	GroupURLStructure       GroupName = "url_structure"
	GroupSuspiciousPatterns GroupName = "suspicious_patterns"
)

// Groups lists the metric groups in display order.
var Groups = []GroupName{GroupSecurityMetrics, GroupURLStructure, GroupSuspiciousPatterns}

func (g GroupName) Valid() bool {
	for _, known := range Groups {
		if g == known {
			return true
		}
	}
	return false
}

type MetricKind string

const (
	KindBool   MetricKind = "bool"
	KindNumber MetricKind = "number"
	KindString MetricKind = "string"
	KindOther  MetricKind = "other"
)

// MetricValue is a single raw metric value as sent by the analysis service.
type MetricValue struct {
	Kind   MetricKind
	Bool   bool
	Number float64
	Text   string
	// Raw holds the JSON text for values of KindOther.
	Raw string
}

func BoolValue(b bool) MetricValue {
	return MetricValue{Kind: KindBool, Bool: b}
}

func NumberValue(n float64) MetricValue {
	return MetricValue{Kind: KindNumber, Number: n}
}

func StringValue(s string) MetricValue {
	return MetricValue{Kind: KindString, Text: s}
}

func (v MetricValue) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindString:
		return v.Text
	default:
		return v.Raw
	}
}

type Metric struct {
	Name  string
	Value MetricValue
}

// MetricGroup keeps metrics in the order the service sent them.
type MetricGroup []Metric

func (g MetricGroup) Get(name string) (MetricValue, bool) {
	for _, m := range g {
		if m.Name == name {
			return m.Value, true
		}
	}
	return MetricValue{}, false
}

// AnalysisResult is the verdict for one submitted URL. Probabilities and
// confidence are fractions in [0,1].
type AnalysisResult struct {
	Prediction          Prediction
	Confidence          float64
	ProbabilitySafe     float64
	ProbabilityPhishing float64
	SecurityMetrics     MetricGroup
	URLStructure        MetricGroup
	SuspiciousPatterns  MetricGroup
}

func (r *AnalysisResult) Group(name GroupName) MetricGroup {
	switch name {
	case GroupSecurityMetrics:
		return r.SecurityMetrics
	case GroupURLStructure:
		return r.URLStructure
	case GroupSuspiciousPatterns:
		return r.SuspiciousPatterns
	default:
		return nil
	}
}
