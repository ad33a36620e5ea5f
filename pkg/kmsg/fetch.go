package kmsg

import "github.com/burningass23/kraft-broker/pkg/kbin"

// PartitionReq is one partition entry of a Fetch request's TopicReq
// (spec §3).
type PartitionReq struct {
	Partition          uint32
	CurrentLeaderEpoch uint32
	FetchOffset        uint64
	LastFetchedEpoch   uint32
	LogStartOffset     uint64
	PartitionMaxBytes  uint32
}

func (p *PartitionReq) readFrom(r *kbin.Reader) {
	p.Partition = r.Uint32()
	p.CurrentLeaderEpoch = r.Uint32()
	p.FetchOffset = r.Uint64()
	p.LastFetchedEpoch = r.Uint32()
	p.LogStartOffset = r.Uint64()
	p.PartitionMaxBytes = r.Uint32()
	r.TagBuffer()
}

// TopicReq is one topic entry of a Fetch request (spec §3).
type TopicReq struct {
	TopicID    [16]byte
	Partitions []PartitionReq
}

func (t *TopicReq) readFrom(r *kbin.Reader) {
	var raw [16]byte
	copy(raw[:], r.Span(16))
	t.TopicID = raw
	n := r.CompactArrayLen()
	t.Partitions = make([]PartitionReq, n)
	for i := range t.Partitions {
		t.Partitions[i].readFrom(r)
	}
	r.TagBuffer()
}

// ForgottenTopic is an entry of a Fetch request's forgotten-topics list
// (incremental fetch session bookkeeping this broker decodes but never
// acts on, since it does not maintain fetch sessions across requests).
type ForgottenTopic struct {
	TopicID    [16]byte
	Partitions []uint32
}

func (f *ForgottenTopic) readFrom(r *kbin.Reader) {
	var raw [16]byte
	copy(raw[:], r.Span(16))
	f.TopicID = raw
	n := r.CompactArrayLen()
	f.Partitions = make([]uint32, n)
	for i := range f.Partitions {
		f.Partitions[i] = r.Uint32()
	}
	r.TagBuffer()
}

// FetchRequest is the v16 flexible Fetch request this broker decodes
// (spec §3).
type FetchRequest struct {
	Header         HeaderV2
	MaxWaitMs      uint32
	MinBytes       uint32
	MaxBytes       uint32
	IsolationLevel uint8
	SessionID      uint32
	SessionEpoch   uint32
	Topics         []TopicReq
	Forgotten      []ForgottenTopic
	RackID         string
}

// ReadFrom decodes a FetchRequest. MaxWaitMs is parsed but never acted
// on: this broker always answers immediately (spec §5).
func (req *FetchRequest) ReadFrom(r *kbin.Reader) {
	req.Header.ReadFrom(r)
	req.MaxWaitMs = r.Uint32()
	req.MinBytes = r.Uint32()
	req.MaxBytes = r.Uint32()
	req.IsolationLevel = r.Uint8()
	req.SessionID = r.Uint32()
	req.SessionEpoch = r.Uint32()

	n := r.CompactArrayLen()
	req.Topics = make([]TopicReq, n)
	for i := range req.Topics {
		req.Topics[i].readFrom(r)
	}

	fn := r.CompactArrayLen()
	req.Forgotten = make([]ForgottenTopic, fn)
	for i := range req.Forgotten {
		req.Forgotten[i].readFrom(r)
	}

	req.RackID = r.CompactString()
	r.TagBuffer()
}

// FetchPartitionResp is one partition's result in a Fetch response
// (spec §3). This broker never produces aborted transactions and
// always reports zeroed high-watermark/log-start/last-stable-offset
// bookkeeping, since it has no concept of committed offsets.
type FetchPartitionResp struct {
	PartitionIndex      uint32
	ErrorCode            int16
	HighWatermark        int64
	LastStableOffset      int64
	LogStartOffset        int64
	PreferredReadReplica  int32
	RecordBatchesRaw      []byte
}

func (p *FetchPartitionResp) appendTo(dst []byte) []byte {
	dst = kbin.AppendUint32(dst, p.PartitionIndex)
	dst = kbin.AppendInt16(dst, p.ErrorCode)
	dst = kbin.AppendInt64(dst, p.HighWatermark)
	dst = kbin.AppendInt64(dst, p.LastStableOffset)
	dst = kbin.AppendInt64(dst, p.LogStartOffset)
	dst = kbin.AppendCompactArrayLen(dst, 0) // aborted transactions: always none
	dst = kbin.AppendInt32(dst, p.PreferredReadReplica)
	if p.RecordBatchesRaw == nil {
		// No batch for this partition: written as u8(1), an empty
		// record set, per this system's convention (spec §4.5.3).
		dst = kbin.AppendUvarint(dst, 1)
	} else {
		dst = kbin.AppendCompactNullableBytes(dst, p.RecordBatchesRaw)
	}
	return kbin.AppendTagBuffer(dst)
}

// FetchTopicResp is one topic's results in a Fetch response (spec §3).
type FetchTopicResp struct {
	TopicID    [16]byte
	Partitions []FetchPartitionResp
}

func (t *FetchTopicResp) appendTo(dst []byte) []byte {
	dst = kbin.AppendUUID(dst, t.TopicID)
	dst = kbin.AppendCompactArrayLen(dst, len(t.Partitions))
	for i := range t.Partitions {
		dst = t.Partitions[i].appendTo(dst)
	}
	return kbin.AppendTagBuffer(dst)
}

// FetchResponse is the v16 flexible Fetch response, sent with HeaderV1
// (spec §3, §4.5.3).
type FetchResponse struct {
	Header     HeaderV1
	ThrottleMs int32
	ErrorCode  int16
	SessionID  uint32
	Responses  []FetchTopicResp
}

// AppendTo appends the encoded response to dst.
func (resp *FetchResponse) AppendTo(dst []byte) []byte {
	dst = resp.Header.AppendTo(dst)
	dst = kbin.AppendInt32(dst, resp.ThrottleMs)
	dst = kbin.AppendInt16(dst, resp.ErrorCode)
	dst = kbin.AppendUint32(dst, resp.SessionID)
	dst = kbin.AppendCompactArrayLen(dst, len(resp.Responses))
	for i := range resp.Responses {
		dst = resp.Responses[i].appendTo(dst)
	}
	return kbin.AppendTagBuffer(dst)
}
