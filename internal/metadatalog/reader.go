package metadatalog

import (
	"fmt"
	"os"

	"github.com/burningass23/kraft-broker/pkg/kbin"
)

// Log is the parsed form of a cluster-metadata log file: an ordered
// list of record batches. Nothing here is cached across requests — the
// caller re-reads the file for every request that needs it
// (spec §3 "Lifecycle").
type Log struct {
	Batches []RecordBatch
}

// Load reads and parses the entire cluster-metadata log at path.
//
// Parsing stops cleanly at end of file; a batch that is truncated
// mid-way is reported as ErrMalformedMetadata rather than silently
// dropped, since a partial batch at the end of this particular log (as
// opposed to a live segment being actively appended to) indicates
// corruption.
func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("metadatalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes data as a sequence of record batches.
func Parse(data []byte) (*Log, error) {
	r := kbin.NewReader(data)
	var log Log
	for r.Len() > 0 {
		b, err := readBatch(r)
		if err != nil {
			return nil, err
		}
		log.Batches = append(log.Batches, b)
	}
	return &log, nil
}

// FindTopic scans every batch's records for a TopicValue named name. If
// found, it returns the topic's id and every PartitionValue across the
// whole log whose TopicID matches, in original file order (spec §4.2).
func (l *Log) FindTopic(name string) (topicID [16]byte, partitions []PartitionValue, found bool) {
	for _, b := range l.Batches {
		for _, rec := range b.Records {
			if rec.Value.Topic != nil && rec.Value.Topic.Name == name {
				topicID = rec.Value.Topic.TopicID
				found = true
			}
		}
	}
	if !found {
		return topicID, nil, false
	}
	for _, b := range l.Batches {
		for _, rec := range b.Records {
			if rec.Value.Partition != nil && rec.Value.Partition.TopicID == topicID {
				partitions = append(partitions, *rec.Value.Partition)
			}
		}
	}
	return topicID, partitions, true
}

// RawBatchForTopic returns the raw on-disk bytes of the first
// RecordBatch that contains any TopicValue whose id matches topicID.
//
// partitionID is accepted but intentionally unused: the source this
// broker preserves bit-for-bit compatibility with never filters by
// partition here, only by topic id (spec §4.2, §9 open question).
func (l *Log) RawBatchForTopic(topicID [16]byte, partitionID uint32) ([]byte, bool) {
	_ = partitionID
	for _, b := range l.Batches {
		for _, rec := range b.Records {
			if rec.Value.Topic != nil && rec.Value.Topic.TopicID == topicID {
				return b.Raw, true
			}
		}
	}
	return nil, false
}
