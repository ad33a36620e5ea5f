package metadatalog

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/burningass23/kraft-broker/pkg/kbin"
	"github.com/stretchr/testify/require"
)

var testTopicID = [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

func encodeTopicRecordValue(name string, id [16]byte) []byte {
	var b []byte
	b = kbin.AppendUint8(b, 1) // frame_version
	b = kbin.AppendUint8(b, 2) // record_type
	b = kbin.AppendUint8(b, 0) // version
	b = kbin.AppendCompactString(b, name)
	b = kbin.AppendUUID(b, id)
	b = kbin.AppendTagBuffer(b)
	return b
}

func encodePartitionRecordValue(partitionID uint32, topicID [16]byte) []byte {
	var b []byte
	b = kbin.AppendUint8(b, 1)
	b = kbin.AppendUint8(b, 3)
	b = kbin.AppendUint8(b, 1)
	b = kbin.AppendUint32(b, partitionID)
	b = kbin.AppendUUID(b, topicID)
	b = kbin.AppendCompactArrayLen(b, 1)
	b = kbin.AppendUint32(b, 0) // replicas[0]
	b = kbin.AppendCompactArrayLen(b, 1)
	b = kbin.AppendUint32(b, 0) // isr[0]
	b = kbin.AppendCompactArrayLen(b, 0) // removing
	b = kbin.AppendCompactArrayLen(b, 0) // adding
	b = kbin.AppendUint32(b, 0)          // leader id
	b = kbin.AppendUint32(b, 0)          // leader epoch
	b = kbin.AppendUint32(b, 0)          // partition epoch
	b = kbin.AppendCompactArrayLen(b, 0) // directories
	b = kbin.AppendTagBuffer(b)
	return b
}

func encodeRecord(valuePayload []byte) []byte {
	var body []byte
	body = kbin.AppendInt8(body, 0)   // attributes
	body = kbin.AppendVarint(body, 0) // timestamp delta
	body = kbin.AppendVarint(body, 0) // offset delta
	body = kbin.AppendCompactNullableBytes(body, nil)
	body = kbin.AppendVarint(body, int64(len(valuePayload)))
	body = append(body, valuePayload...)
	body = kbin.AppendCompactArrayLen(body, 0) // empty headers

	var rec []byte
	rec = kbin.AppendVarint(rec, int64(len(body)))
	rec = append(rec, body...)
	return rec
}

func encodeBatch(t *testing.T, codec int16, records [][]byte) []byte {
	t.Helper()

	var recordsPayload []byte
	for _, r := range records {
		recordsPayload = append(recordsPayload, r...)
	}

	if codec == codecGzip {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write(recordsPayload)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		recordsPayload = buf.Bytes()
	}

	var body []byte
	body = kbin.AppendInt32(body, 0)                 // partition leader epoch
	body = kbin.AppendInt8(body, 2)                  // magic
	body = kbin.AppendUint32(body, 0)                // crc
	body = kbin.AppendInt16(body, codec)             // attributes
	body = kbin.AppendInt32(body, int32(len(records)-1)) // last offset delta
	body = kbin.AppendInt64(body, 0)                 // base timestamp
	body = kbin.AppendInt64(body, 0)                 // max timestamp
	body = kbin.AppendInt64(body, -1)                // producer id
	body = kbin.AppendInt16(body, -1)                // producer epoch
	body = kbin.AppendInt32(body, -1)                // base sequence
	body = kbin.AppendInt32(body, int32(len(records)))
	body = append(body, recordsPayload...)

	var batch []byte
	batch = kbin.AppendInt64(batch, 0) // base offset
	batch = kbin.AppendInt32(batch, int32(len(body)))
	batch = append(batch, body...)
	return batch
}

func TestParseSingleUncompressedBatch(t *testing.T) {
	topicRec := encodeRecord(encodeTopicRecordValue("orders", testTopicID))
	partRec := encodeRecord(encodePartitionRecordValue(0, testTopicID))
	data := encodeBatch(t, codecNone, [][]byte{topicRec, partRec})

	log, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, log.Batches, 1)
	require.Len(t, log.Batches[0].Records, 2)

	id, partitions, found := log.FindTopic("orders")
	require.True(t, found)
	require.Equal(t, testTopicID, id)
	require.Len(t, partitions, 1)
	require.Equal(t, uint32(0), partitions[0].PartitionID)
}

func TestParseGzipCompressedBatch(t *testing.T) {
	topicRec := encodeRecord(encodeTopicRecordValue("clicks", testTopicID))
	data := encodeBatch(t, codecGzip, [][]byte{topicRec})

	log, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, log.Batches, 1)
	require.Len(t, log.Batches[0].Records, 1)

	_, _, found := log.FindTopic("clicks")
	require.True(t, found)
}

func TestFindTopicUnknownName(t *testing.T) {
	topicRec := encodeRecord(encodeTopicRecordValue("orders", testTopicID))
	data := encodeBatch(t, codecNone, [][]byte{topicRec})

	log, err := Parse(data)
	require.NoError(t, err)

	_, _, found := log.FindTopic("missing")
	require.False(t, found)
}

func TestRawBatchForTopicIgnoresPartitionID(t *testing.T) {
	topicRec := encodeRecord(encodeTopicRecordValue("orders", testTopicID))
	data := encodeBatch(t, codecNone, [][]byte{topicRec})

	log, err := Parse(data)
	require.NoError(t, err)

	raw1, found1 := log.RawBatchForTopic(testTopicID, 0)
	raw2, found2 := log.RawBatchForTopic(testTopicID, 999)
	require.True(t, found1)
	require.True(t, found2)
	require.Equal(t, raw1, raw2)
	require.Equal(t, data, raw1)
}

func TestRawBatchForTopicUnknownID(t *testing.T) {
	topicRec := encodeRecord(encodeTopicRecordValue("orders", testTopicID))
	data := encodeBatch(t, codecNone, [][]byte{topicRec})

	log, err := Parse(data)
	require.NoError(t, err)

	var unknown [16]byte
	_, found := log.RawBatchForTopic(unknown, 0)
	require.False(t, found)
}

func TestParseTruncatedBatchFails(t *testing.T) {
	topicRec := encodeRecord(encodeTopicRecordValue("orders", testTopicID))
	data := encodeBatch(t, codecNone, [][]byte{topicRec})

	_, err := Parse(data[:len(data)-5])
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedMetadata)
}

func TestParseUnknownRecordTypeFails(t *testing.T) {
	var badValue []byte
	badValue = kbin.AppendUint8(badValue, 1)
	badValue = kbin.AppendUint8(badValue, 99) // unknown record type
	rec := encodeRecord(badValue)
	data := encodeBatch(t, codecNone, [][]byte{rec})

	_, err := Parse(data)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedMetadata)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/does-not-exist.log")
	require.Error(t, err)
}
