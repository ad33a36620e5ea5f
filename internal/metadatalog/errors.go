// Package metadatalog parses a Kafka KRaft cluster-metadata log file
// into an ordered sequence of record batches and answers the two
// queries this broker's handlers need: find a topic by name, and find
// the raw bytes of the batch holding a given topic id's topic record
// (spec §4.2).
package metadatalog

import "errors"

// ErrMalformedMetadata wraps every failure to parse the on-disk log:
// a truncated batch or record, an unknown record type, a bad frame or
// record version, an unsupported compression codec, or non-empty record
// headers (spec §4.2, §7). Non-zero tag buffers are skipped, not
// rejected.
var ErrMalformedMetadata = errors.New("metadatalog: malformed metadata log")
