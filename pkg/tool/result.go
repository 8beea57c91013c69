package tool

import "time"

// Result is the terminal outcome of one tool invocation: a success carrying
// a payload, or a failure carrying an error code and message. The timestamp
// is assigned when the result is constructed, not when the request was
// received.
type Result struct {
	Success   bool           `json:"success"`
	Content   any            `json:"content,omitempty"`
	Code      string         `json:"code,omitempty"`
	Err       string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// SuccessResult creates a successful result wrapping content.
func SuccessResult(content any) *Result {
	return &Result{
		Success:   true,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// FailureResult creates a failed result with a machine-readable code and a
// human-readable message.
func FailureResult(code, message string) *Result {
	return &Result{
		Success:   false,
		Code:      code,
		Err:       message,
		Timestamp: time.Now().UTC(),
	}
}

// AddMetadata attaches one metadata entry, allocating the map on first use.
// It returns the result so calls can be chained onto a constructor.
func (r *Result) AddMetadata(key string, value any) *Result {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
	return r
}
