package service

import (
	"fmt"

	"phishing_url_analyzer/internal/domain/models"
	"phishing_url_analyzer/internal/pkg/errors"
)

var (
	ErrNoPolicy      = errors.Sentinel(`metric has no risk policy`)
	ErrNoLabel       = errors.Sentinel(`metric has no label`)
	ErrRuleMismatch  = errors.Sentinel(`metric value does not match its rule kind`)
	ErrStaleResponse = errors.Sentinel(`response superseded by a newer submission`)
)

type ConfigErrorKind string

const (
	ConfigErrorNoPolicy     ConfigErrorKind = "no_policy"
	ConfigErrorNoLabel      ConfigErrorKind = "no_label"
	ConfigErrorRuleMismatch ConfigErrorKind = "rule_mismatch"
)

// ConfigError reports a metric the static tables do not cover. It is a
// defect of the tables or of the analysis service, never shown to users.
type ConfigError struct {
	Kind   ConfigErrorKind
	Group  models.GroupName
	Metric string
}

func (e *ConfigError) Error() string {
	if e.Group == "" {
		return fmt.Sprintf("metric %q: %s", e.Metric, e.Unwrap())
	}
	return fmt.Sprintf("%s: metric %q: %s", e.Group, e.Metric, e.Unwrap())
}

func (e *ConfigError) Unwrap() error {
	switch e.Kind {
	case ConfigErrorNoPolicy:
		return ErrNoPolicy
	case ConfigErrorNoLabel:
		return ErrNoLabel
	default:
		return ErrRuleMismatch
	}
}

type FailureKind string

const (
	FailureValidation  FailureKind = "validation_error"
	FailureTransport   FailureKind = "transport_error"
	FailureApplication FailureKind = "application_error"
	FailureMalformed   FailureKind = "malformed_response"
)

// AnalysisFailure is a failed submission. Message is what the error region
// shows.
type AnalysisFailure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *AnalysisFailure) Error() string {
	return f.Message
}

func (f *AnalysisFailure) Unwrap() error {
	return f.Err
}
