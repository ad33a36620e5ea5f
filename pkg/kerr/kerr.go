// Package kerr contains the Kafka protocol error codes this broker can
// return. The codes this system's three handlers produce, plus a few
// common ones, are named as exported values; ErrorForCode recognizes the wider
// official table so a caller inspecting an arbitrary code gets a
// sensible description rather than a blanket "unknown".
//
// The errors are deliberately terse: see
// http://kafka.apache.org/protocol.html#protocolErrorCodes for the
// authoritative descriptions.
package kerr

import "fmt"

// Error is a Kafka protocol error code paired with its name.
type Error struct {
	Code int16
	Name string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d)", e.Name, e.Code)
}

// Int16 returns the wire-form error code.
func (e *Error) Int16() int16 { return e.Code }

// Named error codes: the ones listed in spec §6 (of which the handlers
// produce None, UnknownTopicOrPartition, UnsupportedVersion, and
// UnknownTopicID), two other common codes, and UnknownServerError, the
// fallback of ErrorForCode.
var (
	None                     = &Error{0, "NONE"}
	OffsetOutOfRange         = &Error{1, "OFFSET_OUT_OF_RANGE"}
	CorruptMessage           = &Error{2, "CORRUPT_MESSAGE"}
	UnknownTopicOrPartition  = &Error{3, "UNKNOWN_TOPIC_OR_PARTITION"}
	UnsupportedVersion       = &Error{35, "UNSUPPORTED_VERSION"}
	InvalidRequest           = &Error{42, "INVALID_REQUEST"}
	UnknownTopicID           = &Error{100, "UNKNOWN_TOPIC_ID"}
	UnknownServerError       = &Error{-1, "UNKNOWN_SERVER_ERROR"}
)

// table carries the broader official error catalog so ErrorForCode can
// describe any code a client might ask about, not only the ones this
// broker emits. Codes are data straight off the Kafka protocol page,
// not application logic, so this stays a flat table rather than a
// generated file.
var table = []*Error{
	None, OffsetOutOfRange, CorruptMessage, UnknownTopicOrPartition,
	{4, "INVALID_FETCH_SIZE"}, {5, "LEADER_NOT_AVAILABLE"},
	{6, "NOT_LEADER_FOR_PARTITION"}, {7, "REQUEST_TIMED_OUT"},
	{8, "BROKER_NOT_AVAILABLE"}, {9, "REPLICA_NOT_AVAILABLE"},
	{10, "MESSAGE_TOO_LARGE"}, {11, "STALE_CONTROLLER_EPOCH"},
	{12, "OFFSET_METADATA_TOO_LARGE"}, {13, "NETWORK_EXCEPTION"},
	{14, "COORDINATOR_LOAD_IN_PROGRESS"}, {15, "COORDINATOR_NOT_AVAILABLE"},
	{16, "NOT_COORDINATOR"}, {17, "INVALID_TOPIC_EXCEPTION"},
	{18, "RECORD_LIST_TOO_LARGE"}, {19, "NOT_ENOUGH_REPLICAS"},
	{29, "TOPIC_AUTHORIZATION_FAILED"}, {30, "GROUP_AUTHORIZATION_FAILED"},
	{31, "CLUSTER_AUTHORIZATION_FAILED"}, {33, "UNSUPPORTED_SASL_MECHANISM"},
	{34, "ILLEGAL_SASL_STATE"}, UnsupportedVersion,
	{36, "TOPIC_ALREADY_EXISTS"}, {37, "INVALID_PARTITIONS"},
	{41, "NOT_CONTROLLER"}, InvalidRequest,
	{56, "KAFKA_STORAGE_ERROR"}, {57, "LOG_DIR_NOT_FOUND"},
	{70, "FETCH_SESSION_ID_NOT_FOUND"}, {71, "INVALID_FETCH_SESSION_EPOCH"},
	{74, "FENCED_LEADER_EPOCH"}, {75, "UNKNOWN_LEADER_EPOCH"},
	UnknownTopicID,
}

var code2err map[int16]*Error

func init() {
	code2err = make(map[int16]*Error, len(table))
	for _, e := range table {
		code2err[e.Code] = e
	}
}

// ErrorForCode returns the error corresponding to code, or
// UnknownServerError if code is not recognized. A code of 0 returns nil,
// matching the wire convention that 0 means "no error".
func ErrorForCode(code int16) error {
	if code == 0 {
		return nil
	}
	if e, ok := code2err[code]; ok {
		return e
	}
	return UnknownServerError
}
