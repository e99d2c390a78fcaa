package result

// Kind classifies a finished search.
type Kind string

// Outcome kinds.
const (
	Succeeded Kind = "succeeded"
	Empty     Kind = "empty"
	Failed    Kind = "failed"
)

// Outcome is the classified result of one dispatch. Records is never nil,
// so presentation can treat a failure like an empty result while the kind
// and error stay available for logging.
type Outcome struct {
	kind    Kind
	records []Record
	err     error
}

// Success wraps the records returned by the backend.
func Success(records []Record) Outcome {
	if records == nil {
		records = []Record{}
	}
	kind := Succeeded
	if len(records) == 0 {
		kind = Empty
	}
	return Outcome{kind: kind, records: records}
}

// Failure wraps a dispatch error.
func Failure(err error) Outcome {
	return Outcome{kind: Failed, records: []Record{}, err: err}
}

// Kind returns the outcome classification.
func (o Outcome) Kind() Kind { return o.kind }

// Records returns the result sequence (empty on failure).
func (o Outcome) Records() []Record {
	if o.records == nil {
		return []Record{}
	}
	return o.records
}

// Err returns the dispatch error, if any.
func (o Outcome) Err() error { return o.err }

// Failed reports whether the dispatch failed.
func (o Outcome) Failed() bool { return o.kind == Failed }
