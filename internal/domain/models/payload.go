package models

import (
	"math"

	"phishing_url_analyzer/internal/pkg/errors"

	"github.com/tidwall/gjson"
)

var ErrMalformedPayload = errors.Sentinel(`malformed analysis payload`)

// PayloadError is an application error declared by the analysis service
// through the "error" field of its response.
type PayloadError struct {
	Message string
}

func (e *PayloadError) Error() string {
	return e.Message
}

// DecodeAnalysisPayload parses a response body of the analysis service.
// Percent scaled probabilities are converted to fractions here and nowhere
// else.
func DecodeAnalysisPayload(body []byte) (*AnalysisResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.Wrap(ErrMalformedPayload, `response body is not valid json`)
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, errors.Wrap(ErrMalformedPayload, `response body is not a json object`)
	}

	if msg, declared := errorField(doc); declared {
		return nil, &PayloadError{Message: msg}
	}

	prediction := doc.Get(`prediction`)
	if prediction.Type != gjson.String || prediction.Str == "" {
		return nil, errors.Wrap(ErrMalformedPayload, `prediction is missing`)
	}

	result := &AnalysisResult{
		Prediction:          Prediction(prediction.Str),
		ProbabilitySafe:     doc.Get(`probability_safe`).Float(),
		ProbabilityPhishing: doc.Get(`probability_phishing`).Float(),
		SecurityMetrics:     decodeGroup(doc.Get(string(GroupSecurityMetrics))),
		URLStructure:        decodeGroup(doc.Get(string(GroupURLStructure))),
		SuspiciousPatterns:  decodeGroup(doc.Get(string(GroupSuspiciousPatterns))),
	}

	if confidence := doc.Get(`confidence`); confidence.Exists() {
		result.Confidence = confidence.Float()
	} else {
		result.Confidence = math.Max(result.ProbabilitySafe, result.ProbabilityPhishing)
	}

	if percentScaled(result.ProbabilitySafe, result.ProbabilityPhishing, result.Confidence) {
		result.ProbabilitySafe /= 100
		result.ProbabilityPhishing /= 100
		result.Confidence /= 100
	}
	result.ProbabilitySafe = clampUnit(result.ProbabilitySafe)
	result.ProbabilityPhishing = clampUnit(result.ProbabilityPhishing)
	result.Confidence = clampUnit(result.Confidence)

	return result, nil
}

// unitTolerance is the slack allowed around 1 before a value is read as a
// percentage.
const unitTolerance = 0.01

// percentScaled decides the unit of a payload once for all three values.
// Probabilities summing to about 100 are percentages, summing to about 1 are
// fractions. Otherwise any value clearly above 1 marks the payload as percent.
func percentScaled(safe, phishing, confidence float64) bool {
	sum := safe + phishing
	if math.Abs(sum-100) <= 1 {
		return true
	}
	if math.Abs(sum-1) <= unitTolerance {
		return false
	}
	limit := 1 + unitTolerance
	return safe > limit || phishing > limit || confidence > limit
}

// ErrorMessage returns the "error" field of a response body, or "" when the
// body carries none or the field is not a non-empty string.
func ErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	msg, _ := errorField(gjson.ParseBytes(body))
	return msg
}

// errorField reports whether the document declares an error. Any "error"
// value other than null counts. The message is empty unless the value is a
// string.
func errorField(doc gjson.Result) (string, bool) {
	field := doc.Get(`error`)
	if !field.Exists() || field.Type == gjson.Null {
		return "", false
	}
	if field.Type != gjson.String {
		return "", true
	}
	return field.Str, true
}

func decodeGroup(node gjson.Result) MetricGroup {
	if !node.IsObject() {
		return MetricGroup{}
	}
	group := MetricGroup{}
	node.ForEach(func(key, value gjson.Result) bool {
		group = append(group, Metric{Name: key.Str, Value: valueFromJSON(value)})
		return true
	})
	return group
}

func valueFromJSON(r gjson.Result) MetricValue {
	switch r.Type {
	case gjson.True, gjson.False:
		return BoolValue(r.Bool())
	case gjson.Number:
		return NumberValue(r.Float())
	case gjson.String:
		return StringValue(r.Str)
	default:
		return MetricValue{Kind: KindOther, Raw: r.Raw}
	}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
