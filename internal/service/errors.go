package service

import "fmt"

// TranslationError signals that translating one chunk failed. Partial
// results are discarded; callers never see half-translated text.
type TranslationError struct {
	Offset int // rune offset of the failing chunk in the source text
	Err    error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translating chunk at offset %d: %v", e.Offset, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }

// DeliveryError signals a failed send. Sent counts the chunks that were
// already delivered before the failure; a nonzero count means partial
// delivery, and the next run will resend the whole notification.
type DeliveryError struct {
	Sent  int
	Total int
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivering notification: %d/%d chunks sent: %v", e.Sent, e.Total, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Stage names the pipeline step a run failed in.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageTranslate Stage = "translate"
	StageNotify    Stage = "notify"
	StagePersist   Stage = "persist"
)

// StageError attributes a run failure to a pipeline stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + " stage: " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }
