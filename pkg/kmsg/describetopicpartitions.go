package kmsg

import "github.com/burningass23/kraft-broker/pkg/kbin"

// DescribeTopicPartitionsRequest asks for partition metadata on a set
// of named topics (spec §3).
type DescribeTopicPartitionsRequest struct {
	Header                HeaderV2
	Topics                []string
	ResponsePartitionLimit int32
	Cursor                 uint8
}

// ReadFrom decodes a DescribeTopicPartitionsRequest. Each topic element
// is a COMPACT_STRING followed by its own tag buffer.
func (req *DescribeTopicPartitionsRequest) ReadFrom(r *kbin.Reader) {
	req.Header.ReadFrom(r)
	n := r.CompactArrayLen()
	req.Topics = make([]string, 0, n)
	for i := 0; i < n; i++ {
		req.Topics = append(req.Topics, r.CompactString())
		r.TagBuffer()
	}
	req.ResponsePartitionLimit = r.Int32()
	req.Cursor = r.Uint8()
	r.TagBuffer()
}

// TopicAuthorizedOperationsDefault is the bitfield this broker always
// reports for a present topic (spec §4.5.2): preserved verbatim from
// the source even though the individual bits are never interpreted.
const TopicAuthorizedOperationsDefault int32 = 0x0DF

// PartitionInfo describes one partition of a topic in a
// DescribeTopicPartitions response (spec §3).
type PartitionInfo struct {
	ErrorCode      int16
	PartitionIndex uint32
	LeaderID       uint32
	LeaderEpoch    uint32
	Replicas       []uint32
	ISR            []uint32
	ELR            []uint32
	LastKnownELR   []uint32
	Offline        []uint32
}

// AppendTo appends the encoded partition entry to dst.
func (p *PartitionInfo) AppendTo(dst []byte) []byte {
	dst = kbin.AppendInt16(dst, p.ErrorCode)
	dst = kbin.AppendUint32(dst, p.PartitionIndex)
	dst = kbin.AppendUint32(dst, p.LeaderID)
	dst = kbin.AppendUint32(dst, p.LeaderEpoch)
	dst = appendCompactUint32Array(dst, p.Replicas)
	dst = appendCompactUint32Array(dst, p.ISR)
	dst = appendCompactUint32Array(dst, p.ELR)
	dst = appendCompactUint32Array(dst, p.LastKnownELR)
	dst = appendCompactUint32Array(dst, p.Offline)
	return kbin.AppendTagBuffer(dst)
}

func appendCompactUint32Array(dst []byte, vs []uint32) []byte {
	dst = kbin.AppendCompactArrayLen(dst, len(vs))
	for _, v := range vs {
		dst = kbin.AppendUint32(dst, v)
	}
	return dst
}

// TopicInfo describes one requested topic in a DescribeTopicPartitions
// response (spec §3).
type TopicInfo struct {
	ErrorCode                  int16
	Name                       string
	TopicID                    [16]byte
	IsInternal                 bool
	Partitions                 []PartitionInfo
	TopicAuthorizedOperations  int32
}

// AppendTo appends the encoded topic entry to dst.
func (t *TopicInfo) AppendTo(dst []byte) []byte {
	dst = kbin.AppendInt16(dst, t.ErrorCode)
	dst = kbin.AppendCompactString(dst, t.Name)
	dst = kbin.AppendUUID(dst, t.TopicID)
	dst = kbin.AppendBool(dst, t.IsInternal)
	dst = kbin.AppendCompactArrayLen(dst, len(t.Partitions))
	for i := range t.Partitions {
		dst = t.Partitions[i].AppendTo(dst)
	}
	dst = kbin.AppendInt32(dst, t.TopicAuthorizedOperations)
	return kbin.AppendTagBuffer(dst)
}

// NextCursorNone is the sentinel byte this broker always emits for
// next_cursor: it never paginates (spec §3).
const NextCursorNone uint8 = 0xFF

// DescribeTopicPartitionsResponse is the v0 flexible response, sent
// with HeaderV1 (spec §4.4).
type DescribeTopicPartitionsResponse struct {
	Header     HeaderV1
	ThrottleMs int32
	Topics     []TopicInfo
}

// AppendTo appends the encoded response to dst.
func (resp *DescribeTopicPartitionsResponse) AppendTo(dst []byte) []byte {
	dst = resp.Header.AppendTo(dst)
	dst = kbin.AppendInt32(dst, resp.ThrottleMs)
	dst = kbin.AppendCompactArrayLen(dst, len(resp.Topics))
	for i := range resp.Topics {
		dst = resp.Topics[i].AppendTo(dst)
	}
	dst = kbin.AppendUint8(dst, NextCursorNone)
	return kbin.AppendTagBuffer(dst)
}
