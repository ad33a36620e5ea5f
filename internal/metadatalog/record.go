package metadatalog

import (
	"fmt"

	"github.com/burningass23/kraft-broker/pkg/kbin"
)

// Record is one record inside a RecordBatch (spec §3). Headers are
// assumed empty: no caller of this broker's three handlers needs them,
// and the reference KRaft log never writes any.
type Record struct {
	Attributes     int8
	TimestampDelta int64
	OffsetDelta    int64
	Key            []byte
	Value          RecordValue
}

// readRecord decodes one Record from r. The record's own length prefix
// bounds how much of r this record may consume; it is read first so the
// remainder of r stays positioned at the next record on return.
func readRecord(r *kbin.Reader) (Record, error) {
	length := r.Varint()
	if err := r.Err(); err != nil {
		return Record{}, fmt.Errorf("%w: record length: %v", ErrMalformedMetadata, err)
	}
	body := r.Span(int(length))
	if err := r.Err(); err != nil {
		return Record{}, fmt.Errorf("%w: record body: %v", ErrMalformedMetadata, err)
	}

	br := kbin.NewReader(body)
	var rec Record
	rec.Attributes = br.Int8()
	rec.TimestampDelta = br.Varint()
	rec.OffsetDelta = br.Varint()
	rec.Key = br.CompactNullableBytes()
	valueLen := br.Varint()
	if err := br.Err(); err != nil {
		return Record{}, fmt.Errorf("%w: record header: %v", ErrMalformedMetadata, err)
	}
	valueBytes := br.Span(int(valueLen))
	if err := br.Err(); err != nil {
		return Record{}, fmt.Errorf("%w: record value: %v", ErrMalformedMetadata, err)
	}
	val, err := decodeRecordValue(valueBytes)
	if err != nil {
		return Record{}, err
	}
	rec.Value = val

	headerCount := br.CompactArrayLen()
	if headerCount != 0 {
		return Record{}, fmt.Errorf("%w: non-empty record headers are not supported", ErrMalformedMetadata)
	}
	if err := br.Err(); err != nil {
		return Record{}, fmt.Errorf("%w: record headers: %v", ErrMalformedMetadata, err)
	}
	return rec, nil
}

// RecordValue is the decoded form of a record's typed value payload
// (spec §3). Exactly one of Topic, Partition, FeatureLevel is non-nil.
type RecordValue struct {
	Topic        *TopicValue
	Partition    *PartitionValue
	FeatureLevel *FeatureLevelValue
}

// TopicValue is record_type 2: a topic's name and id (spec §3).
type TopicValue struct {
	Name    string
	TopicID [16]byte
}

// PartitionValue is record_type 3: one partition's assignment and
// leadership state (spec §3).
type PartitionValue struct {
	PartitionID    uint32
	TopicID        [16]byte
	Replicas       []uint32
	ISR            []uint32
	Removing       []uint32
	Adding         []uint32
	LeaderID       uint32
	LeaderEpoch    uint32
	PartitionEpoch uint32
	Directories    [][16]byte
}

// FeatureLevelValue is record_type 12: a cluster feature's negotiated
// level (spec §3). This broker does not use feature levels itself, but
// decodes them so a log containing them still parses cleanly.
type FeatureLevelValue struct {
	Name  string
	Level uint16
}

func decodeRecordValue(b []byte) (RecordValue, error) {
	r := kbin.NewReader(b)
	frameVersion := r.Uint8()
	if frameVersion != 1 {
		return RecordValue{}, fmt.Errorf("%w: unsupported frame_version %d", ErrMalformedMetadata, frameVersion)
	}
	recordType := r.Uint8()

	switch recordType {
	case 2:
		v := r.Uint8() // version
		if v != 0 {
			return RecordValue{}, fmt.Errorf("%w: unsupported TopicRecord version %d", ErrMalformedMetadata, v)
		}
		name := r.CompactString()
		var id [16]byte
		copy(id[:], r.Span(16))
		r.TagBuffer()
		if err := r.Err(); err != nil {
			return RecordValue{}, fmt.Errorf("%w: topic record: %v", ErrMalformedMetadata, err)
		}
		return RecordValue{Topic: &TopicValue{Name: name, TopicID: id}}, nil

	case 3:
		v := r.Uint8() // version
		if v != 1 {
			return RecordValue{}, fmt.Errorf("%w: unsupported PartitionRecord version %d", ErrMalformedMetadata, v)
		}
		pv := &PartitionValue{}
		pv.PartitionID = r.Uint32()
		copy(pv.TopicID[:], r.Span(16))
		pv.Replicas = readCompactUint32Array(r)
		pv.ISR = readCompactUint32Array(r)
		pv.Removing = readCompactUint32Array(r)
		pv.Adding = readCompactUint32Array(r)
		pv.LeaderID = r.Uint32()
		pv.LeaderEpoch = r.Uint32()
		pv.PartitionEpoch = r.Uint32()
		dn := r.CompactArrayLen()
		pv.Directories = make([][16]byte, dn)
		for i := range pv.Directories {
			copy(pv.Directories[i][:], r.Span(16))
		}
		r.TagBuffer()
		if err := r.Err(); err != nil {
			return RecordValue{}, fmt.Errorf("%w: partition record: %v", ErrMalformedMetadata, err)
		}
		return RecordValue{Partition: pv}, nil

	case 12:
		v := r.Uint8() // version
		if v != 0 {
			return RecordValue{}, fmt.Errorf("%w: unsupported FeatureLevelRecord version %d", ErrMalformedMetadata, v)
		}
		name := r.CompactString()
		level := r.Uint16()
		r.TagBuffer()
		if err := r.Err(); err != nil {
			return RecordValue{}, fmt.Errorf("%w: feature level record: %v", ErrMalformedMetadata, err)
		}
		return RecordValue{FeatureLevel: &FeatureLevelValue{Name: name, Level: level}}, nil

	default:
		return RecordValue{}, fmt.Errorf("%w: unknown record_type %d", ErrMalformedMetadata, recordType)
	}
}

func readCompactUint32Array(r *kbin.Reader) []uint32 {
	n := r.CompactArrayLen()
	out := make([]uint32, n)
	for i := range out {
		out[i] = r.Uint32()
	}
	return out
}
