package broker

import "errors"

// The fatal error taxonomy from spec §7. Any of these closes the
// connection they occurred on without a response. Protocol-field
// errors such as UnsupportedVersion are not among them: handlers return
// those inside the response as an error code, and the connection stays
// open.
var (
	// ErrIO covers socket or metadata-log file failures.
	ErrIO = errors.New("broker: i/o error")
	// ErrMalformedRequest covers a truncated message, a bad varint, or
	// any other structurally invalid request body.
	ErrMalformedRequest = errors.New("broker: malformed request")
	// ErrUnsupportedAPIKey is returned when the header names an API key
	// outside {1, 18, 75}. There is no defined Kafka error response for
	// this condition in this system, so the connection is simply closed
	// (spec §7, §9).
	ErrUnsupportedAPIKey = errors.New("broker: unsupported api key")
	// ErrMalformedMetadata covers a failure to parse the on-disk
	// cluster-metadata log.
	ErrMalformedMetadata = errors.New("broker: malformed metadata log")
)
