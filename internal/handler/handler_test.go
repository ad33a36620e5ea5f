package handler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/burningass23/kraft-broker/pkg/kbin"
	"github.com/burningass23/kraft-broker/pkg/kerr"
	"github.com/burningass23/kraft-broker/pkg/kmsg"
	"github.com/stretchr/testify/require"
)

func TestApiVersionsSupportedVersion(t *testing.T) {
	req := &kmsg.ApiVersionsRequest{Header: kmsg.HeaderV2{CorrelationID: 7, APIVersion: 3}}
	resp := ApiVersions(req)
	require.Equal(t, int32(7), resp.Header.CorrelationID)
	require.Equal(t, kerr.None.Int16(), resp.ErrorCode)
	require.Equal(t, kmsg.SupportedAPIs, resp.APIKeys)
	require.Equal(t, int32(0), resp.ThrottleMs)
}

func TestApiVersionsUnsupportedVersion(t *testing.T) {
	req := &kmsg.ApiVersionsRequest{Header: kmsg.HeaderV2{CorrelationID: 7, APIVersion: 5}}
	resp := ApiVersions(req)
	require.Equal(t, kerr.UnsupportedVersion.Int16(), resp.ErrorCode)
	require.Equal(t, kmsg.SupportedAPIs, resp.APIKeys)
}

func writeMetadataLog(t *testing.T, records [][]byte) string {
	t.Helper()
	var recordsPayload []byte
	for _, r := range records {
		recordsPayload = append(recordsPayload, r...)
	}
	var body []byte
	body = kbin.AppendInt32(body, 0)
	body = kbin.AppendInt8(body, 2)
	body = kbin.AppendUint32(body, 0)
	body = kbin.AppendInt16(body, 0)
	body = kbin.AppendInt32(body, int32(len(records)-1))
	body = kbin.AppendInt64(body, 0)
	body = kbin.AppendInt64(body, 0)
	body = kbin.AppendInt64(body, -1)
	body = kbin.AppendInt16(body, -1)
	body = kbin.AppendInt32(body, -1)
	body = kbin.AppendInt32(body, int32(len(records)))
	body = append(body, recordsPayload...)

	var batch []byte
	batch = kbin.AppendInt64(batch, 0)
	batch = kbin.AppendInt32(batch, int32(len(body)))
	batch = append(batch, body...)

	dir := t.TempDir()
	path := filepath.Join(dir, "metadata.log")
	require.NoError(t, os.WriteFile(path, batch, 0o644))
	return path
}

func encodeTopicRecord(name string, id [16]byte) []byte {
	var v []byte
	v = kbin.AppendUint8(v, 1)
	v = kbin.AppendUint8(v, 2)
	v = kbin.AppendUint8(v, 0)
	v = kbin.AppendCompactString(v, name)
	v = kbin.AppendUUID(v, id)
	v = kbin.AppendTagBuffer(v)
	return wrapRecord(v)
}

func encodePartitionRecord(partitionID uint32, topicID [16]byte, leaderID uint32) []byte {
	var v []byte
	v = kbin.AppendUint8(v, 1)
	v = kbin.AppendUint8(v, 3)
	v = kbin.AppendUint8(v, 1)
	v = kbin.AppendUint32(v, partitionID)
	v = kbin.AppendUUID(v, topicID)
	v = kbin.AppendCompactArrayLen(v, 1)
	v = kbin.AppendUint32(v, leaderID)
	v = kbin.AppendCompactArrayLen(v, 1)
	v = kbin.AppendUint32(v, leaderID)
	v = kbin.AppendCompactArrayLen(v, 0)
	v = kbin.AppendCompactArrayLen(v, 0)
	v = kbin.AppendUint32(v, leaderID)
	v = kbin.AppendUint32(v, 0)
	v = kbin.AppendUint32(v, 0)
	v = kbin.AppendCompactArrayLen(v, 0)
	v = kbin.AppendTagBuffer(v)
	return wrapRecord(v)
}

func wrapRecord(value []byte) []byte {
	var body []byte
	body = kbin.AppendInt8(body, 0)
	body = kbin.AppendVarint(body, 0)
	body = kbin.AppendVarint(body, 0)
	body = kbin.AppendCompactNullableBytes(body, nil)
	body = kbin.AppendVarint(body, int64(len(value)))
	body = append(body, value...)
	body = kbin.AppendCompactArrayLen(body, 0)

	var rec []byte
	rec = kbin.AppendVarint(rec, int64(len(body)))
	rec = append(rec, body...)
	return rec
}

func TestDescribeTopicPartitionsUnknownTopic(t *testing.T) {
	path := writeMetadataLog(t, nil)
	req := &kmsg.DescribeTopicPartitionsRequest{
		Header: kmsg.HeaderV2{CorrelationID: 1},
		Topics: []string{"foo"},
	}
	resp, err := DescribeTopicPartitions(req, path)
	require.NoError(t, err)
	require.Len(t, resp.Topics, 1)
	topic := resp.Topics[0]
	require.Equal(t, kerr.UnknownTopicOrPartition.Int16(), topic.ErrorCode)
	require.Equal(t, "foo", topic.Name)
	require.Equal(t, [16]byte{}, topic.TopicID)
	require.Empty(t, topic.Partitions)
	require.Equal(t, int32(0x0DF), topic.TopicAuthorizedOperations)
}

func TestDescribeTopicPartitionsKnownTopic(t *testing.T) {
	id := [16]byte{9, 9, 9}
	records := [][]byte{
		encodeTopicRecord("bar", id),
		encodePartitionRecord(0, id, 1),
	}
	path := writeMetadataLog(t, records)

	req := &kmsg.DescribeTopicPartitionsRequest{
		Header: kmsg.HeaderV2{CorrelationID: 1},
		Topics: []string{"bar"},
	}
	resp, err := DescribeTopicPartitions(req, path)
	require.NoError(t, err)
	require.Len(t, resp.Topics, 1)
	topic := resp.Topics[0]
	require.Equal(t, kerr.None.Int16(), topic.ErrorCode)
	require.Equal(t, id, topic.TopicID)
	require.Len(t, topic.Partitions, 1)
	require.Equal(t, uint32(0), topic.Partitions[0].PartitionIndex)
	require.Equal(t, uint32(1), topic.Partitions[0].LeaderID)
}

func TestFetchEmptyTopicsList(t *testing.T) {
	path := writeMetadataLog(t, nil)
	req := &kmsg.FetchRequest{
		Header:    kmsg.HeaderV2{CorrelationID: 1},
		SessionID: 42,
	}
	resp, err := Fetch(req, path)
	require.NoError(t, err)
	require.Equal(t, kerr.None.Int16(), resp.ErrorCode)
	require.Equal(t, uint32(42), resp.SessionID)
	require.Empty(t, resp.Responses)
}

func TestFetchUnknownTopicID(t *testing.T) {
	path := writeMetadataLog(t, nil)
	var unknown [16]byte
	req := &kmsg.FetchRequest{
		Header: kmsg.HeaderV2{CorrelationID: 1},
		Topics: []kmsg.TopicReq{
			{TopicID: unknown, Partitions: []kmsg.PartitionReq{{Partition: 0}}},
		},
	}
	resp, err := Fetch(req, path)
	require.NoError(t, err)
	require.Len(t, resp.Responses, 1)
	require.Len(t, resp.Responses[0].Partitions, 1)
	part := resp.Responses[0].Partitions[0]
	require.Equal(t, kerr.UnknownTopicID.Int16(), part.ErrorCode)
	require.Nil(t, part.RecordBatchesRaw)
}
