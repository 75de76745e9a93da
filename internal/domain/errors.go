package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when a row does not exist
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// IsNotFound reports whether err wraps an *ErrNotFound
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// FailureKind classifies why a pipeline run failed
type FailureKind string

const (
	// network, timeout, rate limiting, upstream 5xx, open breaker
	FailureKindTransient FailureKind = "transient"
	// missing or inactive channel, no route, bad mapping, undecryptable token
	FailureKindConfiguration FailureKind = "configuration"
	// rejected by the platform or unusable lead data
	FailureKindPermanent FailureKind = "permanent"
	// retry ceiling reached
	FailureKindExhausted FailureKind = "exhausted"
)

func (k FailureKind) Validate() error {
	switch k {
	case FailureKindTransient, FailureKindConfiguration, FailureKindPermanent, FailureKindExhausted:
		return nil
	default:
		return fmt.Errorf("invalid failure kind: %q", string(k))
	}
}

// PipelineStep names one stage of ProcessLeadEvent
type PipelineStep string

const (
	StepLoadEvent    PipelineStep = "load_event"
	StepClaim        PipelineStep = "claim"
	StepLoadChannel  PipelineStep = "load_channel"
	StepCredentials  PipelineStep = "credentials"
	StepFetch        PipelineStep = "fetch_lead"
	StepResolveRoute PipelineStep = "resolve_route"
	StepMapFields    PipelineStep = "map_fields"
	StepPersist      PipelineStep = "persist"
	StepPublish      PipelineStep = "publish"
)

// PipelineError is the error a pipeline step returns
type PipelineError struct {
	Step PipelineStep
	Kind FailureKind
	Err  error
}

func NewPipelineError(step PipelineStep, kind FailureKind, err error) *PipelineError {
	return &PipelineError{Step: step, Kind: kind, Err: err}
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// FailureKindOf returns the kind carried by a *PipelineError, transient otherwise
func FailureKindOf(err error) FailureKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return FailureKindTransient
}

var (
	ErrRouteNotFound       = errors.New("no active ingest route for channel")
	ErrChannelInactive     = errors.New("channel is inactive")
	ErrChannelOrgMismatch  = errors.New("channel belongs to another organization")
	ErrMaxRetriesExceeded  = errors.New("max retry attempts exceeded")
	ErrMissingAccessToken  = errors.New("channel has no access token")
	ErrLeadEventNotRetried = errors.New("lead event cannot be retried")
	ErrEmptyLead           = errors.New("lead has no contact attributes")
	ErrClaimLost           = errors.New("lead event claim lost")
)
