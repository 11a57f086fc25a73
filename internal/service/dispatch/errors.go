package dispatch

import "fmt"

// ErrorCode represents specific error conditions in the dispatch engine
type ErrorCode string

const (
	// Configuration related errors
	ErrCodeConfigMissing  ErrorCode = "EMAIL_CONFIG_MISSING"
	ErrCodeConfigInactive ErrorCode = "EMAIL_CONFIG_INACTIVE"

	// Batch related errors
	ErrCodeBatchNotFound ErrorCode = "BATCH_NOT_FOUND"
	ErrCodeBatchInvalid  ErrorCode = "BATCH_INVALID"

	// Recipient related errors
	ErrCodeRecipientFetch ErrorCode = "RECIPIENT_FETCH_FAILED"
	ErrCodeNoRecipients   ErrorCode = "NO_RECIPIENTS"

	// Sending related errors
	ErrCodeSendFailed        ErrorCode = "SEND_FAILED"
	ErrCodeTemplateRender    ErrorCode = "TEMPLATE_RENDER_FAILED"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeCircuitOpen       ErrorCode = "CIRCUIT_OPEN"

	// Scheduling related errors
	ErrCodeEnqueueFailed ErrorCode = "ENQUEUE_FAILED"
)

// DispatchError represents an error in the dispatch engine with context
type DispatchError struct {
	Code      ErrorCode
	Message   string
	BatchID   string
	Retryable bool
	Err       error
}

// Error implements the error interface
func (e *DispatchError) Error() string {
	if e.Err != nil {
		if e.BatchID != "" {
			return fmt.Sprintf("[%s] %s (batch: %s): %v", e.Code, e.Message, e.BatchID, e.Err)
		}
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	if e.BatchID != "" {
		return fmt.Sprintf("[%s] %s (batch: %s)", e.Code, e.Message, e.BatchID)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DispatchError) Unwrap() error {
	return e.Err
}

// NewDispatchError creates a new dispatch error
func NewDispatchError(code ErrorCode, message string, retryable bool, err error) *DispatchError {
	return &DispatchError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Err:       err,
	}
}

// NewDispatchErrorWithBatch creates a new dispatch error carrying a batch ID
func NewDispatchErrorWithBatch(code ErrorCode, message, batchID string, retryable bool, err error) *DispatchError {
	return &DispatchError{
		Code:      code,
		Message:   message,
		BatchID:   batchID,
		Retryable: retryable,
		Err:       err,
	}
}

// IsRetryable returns whether the error is retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*DispatchError); ok {
		return e.Retryable
	}
	return false
}
