package osmxml

import "fmt"

// BadArgumentError reports an argument of the wrong shape:
// FingerprintDocument returns it when its root is not a single-entry map.
// Unparse reports a bad root with BadRootError instead.
type BadArgumentError struct {
	Msg string
}

func (e *BadArgumentError) Error() string { return "osmxml: bad argument: " + e.Msg }

// InitFailureError reports that the underlying XML tokenizer could not be
// constructed.
type InitFailureError struct {
	Err error
}

func (e *InitFailureError) Error() string {
	return fmt.Sprintf("osmxml: failed to initialize XML reader: %v", e.Err)
}
func (e *InitFailureError) Unwrap() error { return e.Err }

// MalformedError wraps an error the tokenizer reported mid-stream.
type MalformedError struct {
	Err error
}

func (e *MalformedError) Error() string { return fmt.Sprintf("osmxml: malformed XML: %v", e.Err) }
func (e *MalformedError) Unwrap() error { return e.Err }

// BadValueError reports that the coercer could not convert the raw text
// for the named key (§4.1).
type BadValueError struct {
	Key string
	Raw string
}

func (e *BadValueError) Error() string {
	return fmt.Sprintf("osmxml: cannot coerce value for %q: %q", e.Key, e.Raw)
}

// EmptyDocumentError reports that the input stream ended without producing
// a root element.
type EmptyDocumentError struct{}

func (e *EmptyDocumentError) Error() string { return "osmxml: document is empty" }

// NestingTooDeepError reports that the frame stack would exceed its fixed
// depth of 10 (§4.4).
type NestingTooDeepError struct {
	Limit int
}

func (e *NestingTooDeepError) Error() string {
	return fmt.Sprintf("osmxml: XML nesting depth exceeds limit of %d", e.Limit)
}

// BadRootError reports that an unparse root was missing, had more than one
// entry, had a non-string key, or held a sequence of multiple scalars/maps
// at the document root (§4.5, §7).
type BadRootError struct {
	Msg string
}

func (e *BadRootError) Error() string { return "osmxml: bad root: " + e.Msg }

// NonUTCTimestampError reports that Unparse encountered a timestamp whose
// location is not UTC (§4.5).
type NonUTCTimestampError struct {
	Location string
}

func (e *NonUTCTimestampError) Error() string {
	return fmt.Sprintf("osmxml: timestamp must be UTC, got %s", e.Location)
}

// OutOfMemoryError mirrors the allocator-failure kind named in §7. Go's
// runtime terminates the process on real allocation failure rather than
// returning one, so this type exists for API completeness with spec.md's
// error-kind enumeration; nothing in this package constructs it.
type OutOfMemoryError struct{}

func (e *OutOfMemoryError) Error() string { return "osmxml: out of memory" }
