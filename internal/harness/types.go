package harness

// Trace event types.
const (
	TracePersist = "persist"
	TraceUpdate  = "update"
	TraceEmit    = "emit"
	TraceRead    = "read"
	TraceError   = "error"
)

// TraceEvent is one observable effect of a scenario run.
type TraceEvent struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq"`
	Store   string          `json:"store,omitempty"`
	Key     string          `json:"key,omitempty"`
	Raw     string          `json:"raw,omitempty"`
	Event   string          `json:"event,omitempty"`
	Args    []any           `json:"args,omitempty"`
	Changed map[string]bool `json:"changed,omitempty"`
	Name    string          `json:"name,omitempty"`
	Value   any             `json:"value,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expectations match.
	Pass bool `json:"pass"`

	// Trace contains store writes and emitted events in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Values is the final snapshot of every declared property.
	Values map[string]any `json:"values,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Values: make(map[string]any),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Updates returns the changed maps of every update event, in order.
func (r *Result) Updates() []map[string]bool {
	var out []map[string]bool
	for _, e := range r.Trace {
		if e.Type == TraceUpdate {
			out = append(out, e.Changed)
		}
	}
	return out
}

// Persists returns every persist event written to store ("durable" or
// "session").
func (r *Result) Persists(store string) []TraceEvent {
	var out []TraceEvent
	for _, e := range r.Trace {
		if e.Type == TracePersist && e.Store == store {
			out = append(out, e)
		}
	}
	return out
}
