package kmsg

import "github.com/burningass23/kraft-broker/pkg/kbin"

// HeaderV2 is the request header every incoming message starts with:
// api key, api version, a client-chosen correlation id to echo back,
// the client id, and a trailing tag buffer (spec §3).
type HeaderV2 struct {
	APIKey        int16
	APIVersion    int16
	CorrelationID int32
	ClientID      string
}

// ReadFrom decodes a HeaderV2 from r. The client id is read as a legacy
// nullable string: every request this broker accepts predates a
// flexible request header for client id, per the wire captures the
// three supported APIs actually send.
func (h *HeaderV2) ReadFrom(r *kbin.Reader) {
	h.APIKey = r.Int16()
	h.APIVersion = r.Int16()
	h.CorrelationID = r.Int32()
	h.ClientID = r.NullableString()
	r.TagBuffer()
}

// HeaderV0 is the response header used only by ApiVersions: just the
// correlation id, no tag buffer (spec §4.4).
type HeaderV0 struct {
	CorrelationID int32
}

// AppendTo appends the encoded header to dst.
func (h HeaderV0) AppendTo(dst []byte) []byte {
	return kbin.AppendInt32(dst, h.CorrelationID)
}

// HeaderV1 is the response header used by every response other than
// ApiVersions: correlation id followed by an empty tag buffer.
type HeaderV1 struct {
	CorrelationID int32
}

// AppendTo appends the encoded header to dst.
func (h HeaderV1) AppendTo(dst []byte) []byte {
	dst = kbin.AppendInt32(dst, h.CorrelationID)
	return kbin.AppendTagBuffer(dst)
}
