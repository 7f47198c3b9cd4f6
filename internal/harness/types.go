package harness

// StepTrace records what one scenario step did.
type StepTrace struct {
	Step    int    `json:"step"`
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Added   int    `json:"added"`
	Evicted int    `json:"evicted"`
	Total   int    `json:"total"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace has one entry per step, in order.
	Trace []StepTrace `json:"trace"`

	// Errors lists failed assertions. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Journals maps each scenario file name to its raw journal entries.
	Journals map[string][]string `json:"journals"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []StepTrace{},
		Errors:   []string{},
		Journals: make(map[string][]string),
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
