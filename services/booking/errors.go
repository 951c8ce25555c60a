package booking

import "fmt"

// Kind classifies a modification failure. Every kind maps to a pre-composed
// user-facing message; raw internals are never shown to the user.
type Kind string

const (
	KindInputUnparseable     Kind = "inputUnparseable"
	KindNoMatchingSlot       Kind = "noMatchingSlot"
	KindCatalogLookupFailed  Kind = "catalogLookupFailed"
	KindGatewayUnavailable   Kind = "gatewayUnavailable"
	KindPartialCommitFailure Kind = "partialCommitFailure"
)

// FlowError carries a failure kind alongside the wrapped cause.
type FlowError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

func NewFlowError(kind Kind, message string, err error) *FlowError {
	return &FlowError{Kind: kind, Message: message, Err: err}
}
