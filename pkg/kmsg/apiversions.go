package kmsg

import "github.com/burningass23/kraft-broker/pkg/kbin"

// ApiVersionsRequest carries only the header: the client-name/version
// compact strings that follow it on the wire are part of the request
// body but are never consulted by this broker (spec §3).
type ApiVersionsRequest struct {
	Header HeaderV2
}

// ReadFrom decodes an ApiVersionsRequest. The remaining body bytes
// (client software name/version) are intentionally left unread; the
// framing layer already captured the full message, so any trailing
// bytes are simply ignored per the tolerant-read rule (spec §4.3).
func (req *ApiVersionsRequest) ReadFrom(r *kbin.Reader) {
	req.Header.ReadFrom(r)
}

// ApiVersionsResponse is the v3+ shaped, flexible ApiVersions response,
// always sent with the legacy HeaderV0 (spec §4.4).
type ApiVersionsResponse struct {
	Header      HeaderV0
	ErrorCode   int16
	APIKeys     []SupportedAPI
	ThrottleMs  int32
}

// AppendTo appends the encoded response to dst.
func (resp *ApiVersionsResponse) AppendTo(dst []byte) []byte {
	dst = resp.Header.AppendTo(dst)
	dst = kbin.AppendInt16(dst, resp.ErrorCode)
	dst = kbin.AppendCompactArrayLen(dst, len(resp.APIKeys))
	for _, k := range resp.APIKeys {
		dst = kbin.AppendInt16(dst, k.Key)
		dst = kbin.AppendInt16(dst, k.MinVersion)
		dst = kbin.AppendInt16(dst, k.MaxVersion)
		dst = kbin.AppendTagBuffer(dst)
	}
	dst = kbin.AppendInt32(dst, resp.ThrottleMs)
	dst = kbin.AppendTagBuffer(dst)
	return dst
}
