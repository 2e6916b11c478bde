package state

// EvidenceStatus enumerates the lifecycle of one collected evidence field.
type EvidenceStatus string

const (
	EvidenceUnset   EvidenceStatus = "unset"
	EvidencePresent EvidenceStatus = "present"
	EvidenceFailed  EvidenceStatus = "failed"
)

// Evidence is a write-once container for one collector's result. Once a value
// or a failure is recorded the field refuses further writes, which makes
// collector idempotence a structural property rather than a discipline.
type Evidence[T any] struct {
	Status EvidenceStatus `json:"status"`
	Value  T              `json:"value,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

func Present[T any](v T) Evidence[T] {
	return Evidence[T]{Status: EvidencePresent, Value: v}
}

func Failed[T any](reason string) Evidence[T] {
	return Evidence[T]{Status: EvidenceFailed, Reason: reason}
}

// Resolved reports whether the field has been written, successfully or not.
// A resolved field is never re-fetched.
func (e Evidence[T]) Resolved() bool {
	return e.Status == EvidencePresent || e.Status == EvidenceFailed
}

func (e Evidence[T]) IsPresent() bool {
	return e.Status == EvidencePresent
}

// SetPresent records a value unless the field is already resolved. Returns
// false on the no-op path.
func (e *Evidence[T]) SetPresent(v T) bool {
	if e.Resolved() {
		return false
	}
	e.Status = EvidencePresent
	e.Value = v
	e.Reason = ""
	return true
}

// SetFailed records a failure cause unless the field is already resolved.
func (e *Evidence[T]) SetFailed(reason string) bool {
	if e.Resolved() {
		return false
	}
	e.Status = EvidenceFailed
	e.Reason = reason
	return true
}
