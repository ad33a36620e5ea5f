package metadatalog

import (
	"fmt"

	"github.com/burningass23/kraft-broker/pkg/kbin"
)

// RecordBatch is one batch of the cluster-metadata log (spec §3). Raw
// holds the exact on-disk bytes this batch occupied (base_offset
// through the end of its records), so Fetch can pass a batch through to
// a client byte-for-byte without re-encoding it (spec §4.5.3).
type RecordBatch struct {
	BaseOffset           int64
	BatchLength          int32
	PartitionLeaderEpoch int32
	Magic                int8
	CRC                  uint32
	Attributes           int16
	LastOffsetDelta      int32
	BaseTimestamp        int64
	MaxTimestamp         int64
	ProducerID           int64
	ProducerEpoch        int16
	BaseSequence         int32
	Records              []Record

	Raw []byte
}

// compressionCodec returns the low 3 bits of Attributes, which select
// the compression algorithm of the batch's record section (SPEC_FULL
// §3/§4.9).
func (b *RecordBatch) compressionCodec() int16 {
	return b.Attributes & 0x07
}

// readBatch decodes one RecordBatch starting at r's current position.
// It consumes exactly BatchLength+12 bytes, per the invariant in spec
// §3(iii), and keeps the raw bytes it consumed in the batch's Raw field.
func readBatch(r *kbin.Reader) (RecordBatch, error) {
	var b RecordBatch
	b.BaseOffset = r.Int64()
	b.BatchLength = r.Int32()
	if err := r.Err(); err != nil {
		return RecordBatch{}, fmt.Errorf("%w: batch prefix: %v", ErrMalformedMetadata, err)
	}
	if b.BatchLength < 0 {
		return RecordBatch{}, fmt.Errorf("%w: negative batch_length %d", ErrMalformedMetadata, b.BatchLength)
	}

	// The whole batch occupies BatchLength bytes counted from right
	// after the batch_length field; slice that region off now so every
	// subsequent read is bounded to this batch even if its encoded
	// fields lie about their own sizes.
	body := r.Span(int(b.BatchLength))
	if err := r.Err(); err != nil {
		return RecordBatch{}, fmt.Errorf("%w: truncated batch body: %v", ErrMalformedMetadata, err)
	}

	// Reconstruct the raw span (base_offset + batch_length + body) for
	// zero-copy pass-through in Fetch responses (spec §4.5.3).
	raw := make([]byte, 0, 12+len(body))
	raw = kbin.AppendInt64(raw, b.BaseOffset)
	raw = kbin.AppendInt32(raw, b.BatchLength)
	raw = append(raw, body...)
	b.Raw = raw

	br := kbin.NewReader(body)
	b.PartitionLeaderEpoch = br.Int32()
	b.Magic = br.Int8()
	b.CRC = br.Uint32() // not validated, spec §4.2/§9
	b.Attributes = br.Int16()
	b.LastOffsetDelta = br.Int32()
	b.BaseTimestamp = br.Int64()
	b.MaxTimestamp = br.Int64()
	b.ProducerID = br.Int64()
	b.ProducerEpoch = br.Int16()
	b.BaseSequence = br.Int32()
	recordCount := br.Int32()
	if err := br.Err(); err != nil {
		return RecordBatch{}, fmt.Errorf("%w: batch header: %v", ErrMalformedMetadata, err)
	}
	if recordCount < 0 {
		return RecordBatch{}, fmt.Errorf("%w: negative record count %d", ErrMalformedMetadata, recordCount)
	}

	recordsPayload := br.Remaining()
	if err := br.Err(); err != nil {
		return RecordBatch{}, fmt.Errorf("%w: records payload: %v", ErrMalformedMetadata, err)
	}

	decoded, err := decompress(b.compressionCodec(), recordsPayload)
	if err != nil {
		return RecordBatch{}, err
	}

	rr := kbin.NewReader(decoded)
	b.Records = make([]Record, 0, recordCount)
	for i := int32(0); i < recordCount; i++ {
		rec, err := readRecord(rr)
		if err != nil {
			return RecordBatch{}, err
		}
		b.Records = append(b.Records, rec)
	}

	return b, nil
}
