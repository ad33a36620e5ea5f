// Package handler implements the three request handlers as pure
// functions: a decoded request plus the path of the metadata log goes
// in, a response entity comes out. Nothing here touches a socket.
package handler

import (
	"github.com/burningass23/kraft-broker/internal/metadatalog"
	"github.com/burningass23/kraft-broker/pkg/kerr"
	"github.com/burningass23/kraft-broker/pkg/kmsg"
)

// topicAuthorizedOperationsDefault is the bitfield value this system
// always reports for a present topic (spec §4.5.2, §6).
const topicAuthorizedOperationsDefault = kmsg.TopicAuthorizedOperationsDefault

// ApiVersions answers an ApiVersionsRequest. The response is returned
// even when the requested version is unsupported; only error_code
// differs.
func ApiVersions(req *kmsg.ApiVersionsRequest) *kmsg.ApiVersionsResponse {
	resp := &kmsg.ApiVersionsResponse{
		Header:     kmsg.HeaderV0{CorrelationID: req.Header.CorrelationID},
		APIKeys:    kmsg.SupportedAPIs,
		ThrottleMs: 0,
	}
	if req.Header.APIVersion < kmsg.ApiVersionsMinVersion || req.Header.APIVersion > kmsg.ApiVersionsMaxVersion {
		resp.ErrorCode = kerr.UnsupportedVersion.Int16()
	} else {
		resp.ErrorCode = kerr.None.Int16()
	}
	return resp
}

// DescribeTopicPartitions answers a DescribeTopicPartitionsRequest by
// loading the metadata log at logPath and looking up each requested
// topic name, in request order (spec §4.5.2).
func DescribeTopicPartitions(req *kmsg.DescribeTopicPartitionsRequest, logPath string) (*kmsg.DescribeTopicPartitionsResponse, error) {
	log, err := metadatalog.Load(logPath)
	if err != nil {
		return nil, err
	}

	resp := &kmsg.DescribeTopicPartitionsResponse{
		Header:     kmsg.HeaderV1{CorrelationID: req.Header.CorrelationID},
		ThrottleMs: 0,
	}

	for _, name := range req.Topics {
		topicID, partitions, found := log.FindTopic(name)
		if !found {
			resp.Topics = append(resp.Topics, kmsg.TopicInfo{
				ErrorCode:                 kerr.UnknownTopicOrPartition.Int16(),
				Name:                      name,
				TopicID:                   [16]byte{},
				IsInternal:                false,
				Partitions:                nil,
				TopicAuthorizedOperations: topicAuthorizedOperationsDefault,
			})
			continue
		}

		infos := make([]kmsg.PartitionInfo, 0, len(partitions))
		for _, p := range partitions {
			infos = append(infos, kmsg.PartitionInfo{
				ErrorCode:      kerr.None.Int16(),
				PartitionIndex: p.PartitionID,
				LeaderID:       p.LeaderID,
				LeaderEpoch:    p.LeaderEpoch,
				Replicas:       p.Replicas,
				ISR:            p.ISR,
				// Preserved misnaming from the source this protocol
				// mirrors (spec §9): elr comes from adding_replicas,
				// offline comes from removing_replicas.
				ELR:          p.Adding,
				LastKnownELR: nil,
				Offline:      p.Removing,
			})
		}
		resp.Topics = append(resp.Topics, kmsg.TopicInfo{
			ErrorCode:                 kerr.None.Int16(),
			Name:                      name,
			TopicID:                   topicID,
			IsInternal:                false,
			Partitions:                infos,
			TopicAuthorizedOperations: topicAuthorizedOperationsDefault,
		})
	}

	return resp, nil
}

// Fetch answers a FetchRequest. For every requested partition the
// metadata log is loaded again — re-reading per partition rather than
// once per request keeps the handler stateless (spec §4.5.3, §9).
func Fetch(req *kmsg.FetchRequest, logPath string) (*kmsg.FetchResponse, error) {
	resp := &kmsg.FetchResponse{
		Header:    kmsg.HeaderV1{CorrelationID: req.Header.CorrelationID},
		ErrorCode: kerr.None.Int16(),
		SessionID: req.SessionID,
	}

	for _, topic := range req.Topics {
		topicResp := kmsg.FetchTopicResp{TopicID: topic.TopicID}
		for _, part := range topic.Partitions {
			log, err := metadatalog.Load(logPath)
			if err != nil {
				return nil, err
			}

			raw, found := log.RawBatchForTopic(topic.TopicID, part.Partition)
			partResp := kmsg.FetchPartitionResp{PartitionIndex: part.Partition}
			if found {
				partResp.ErrorCode = kerr.None.Int16()
				partResp.RecordBatchesRaw = raw
			} else {
				partResp.ErrorCode = kerr.UnknownTopicID.Int16()
				partResp.RecordBatchesRaw = nil
			}
			topicResp.Partitions = append(topicResp.Partitions, partResp)
		}
		resp.Responses = append(resp.Responses, topicResp)
	}

	return resp, nil
}
