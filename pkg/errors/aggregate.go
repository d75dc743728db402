package errors

import (
	"fmt"
	"strings"
)

// RecordError ties a failure to the record that caused it.
type RecordError struct {
	Index  int    // Position of the record in the input
	Serial string // Serial number of the record
	Err    error  // Underlying failure
}

// Error implements the error interface.
func (e RecordError) Error() string {
	return fmt.Sprintf("record %d (serial %q): %s", e.Index, e.Serial, UserMessage(e.Err))
}

// Unwrap returns the underlying failure.
func (e RecordError) Unwrap() error { return e.Err }

// EncodingErrors aggregates every record that failed barcode encoding in a
// single generation call. Failures are ordered by record index.
type EncodingErrors struct {
	Total    int           // Number of records in the call
	Failures []RecordError // One entry per failing record
}

// Error implements the error interface.
func (e *EncodingErrors) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeEncoding, e.summary())
}

func (e *EncodingErrors) summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d records could not be encoded", len(e.Failures), e.Total)
	for i, f := range e.Failures {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(f.Error())
	}
	return b.String()
}

// Code returns [ErrCodeEncoding].
func (e *EncodingErrors) Code() Code { return ErrCodeEncoding }

// Unwrap exposes every per-record failure to errors.Is and errors.As.
func (e *EncodingErrors) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Serials returns the serial numbers of the failing records in index order.
func (e *EncodingErrors) Serials() []string {
	out := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f.Serial
	}
	return out
}

// Indexes returns the input positions of the failing records.
func (e *EncodingErrors) Indexes() []int {
	out := make([]int, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f.Index
	}
	return out
}
