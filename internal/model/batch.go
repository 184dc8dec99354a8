package model

import "fmt"

// Outcome classifies how a single matched row was handled.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeSkip    Outcome = "skip"
)

// Reason explains an Outcome. Reasons are logged and reported per row but
// never abort a batch.
type Reason string

const (
	ReasonToggled        Reason = "toggled"
	ReasonControlMissing Reason = "control_missing"
	ReasonAlreadyInState Reason = "already_in_state"
	ReasonToggleFailed   Reason = "toggle_failed"
)

// Match pairs a table row with an identifier found in its designated column.
// Row is an opaque element reference issued by the page backend.
type Match struct {
	Row        string `yaml:"row"        json:"row"`
	RowIndex   int    `yaml:"row_index"  json:"row_index"`
	CellText   string `yaml:"cell"       json:"cell"`
	Identifier string `yaml:"identifier" json:"identifier"`
}

// RowResult records what happened to one match.
type RowResult struct {
	Identifier string  `yaml:"identifier"      json:"identifier"`
	RowIndex   int     `yaml:"row_index"       json:"row_index"`
	Outcome    Outcome `yaml:"outcome"         json:"outcome"`
	Reason     Reason  `yaml:"reason"          json:"reason"`
	Error      string  `yaml:"error,omitempty" json:"error,omitempty"`
	// Bounds is the control's viewport rectangle [x, y, w, h] when known.
	Bounds [4]int `yaml:"bounds,omitempty" json:"bounds,omitempty"`
}

// Counters accumulate outcomes over one batch. They only ever increase.
type Counters struct {
	Successes int `yaml:"successes" json:"successes"`
	Failures  int `yaml:"failures"  json:"failures"`
	Skips     int `yaml:"skips"     json:"skips"`
}

// Add increments the counter for o.
func (c *Counters) Add(o Outcome) {
	switch o {
	case OutcomeSuccess:
		c.Successes++
	case OutcomeFailure:
		c.Failures++
	case OutcomeSkip:
		c.Skips++
	default:
		panic(fmt.Sprintf("model: unknown outcome %q", o))
	}
}

// Total is the number of rows processed.
func (c Counters) Total() int {
	return c.Successes + c.Failures + c.Skips
}
