package harness

// Result is the outcome of checking one case.
type Result struct {
	// Name is the case name.
	Name string `json:"name"`

	// Pass is true if every check succeeded.
	Pass bool `json:"pass"`

	// QueryID is the content ID of the parsed query. Empty for error cases.
	QueryID string `json:"query_id,omitempty"`

	// Checks lists the checks that ran, in order.
	Checks []string `json:"checks"`

	// Errors contains failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Checks: []string{},
		Errors: []string{},
	}
}

// AddCheck records that a check ran.
func (r *Result) AddCheck(check string) {
	r.Checks = append(r.Checks, check)
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Summary counts passing and failing results.
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Summarize counts results.
func Summarize(results []*Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Pass {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}
