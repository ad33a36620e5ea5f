// Package broker implements the per-connection framing and dispatch
// loop: it reads length-prefixed messages, routes them by API key to
// the internal/handler functions, and writes back length-prefixed
// responses (spec §4.6).
package broker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/burningass23/kraft-broker/internal/config"
	"github.com/burningass23/kraft-broker/internal/handler"
	"github.com/burningass23/kraft-broker/internal/klog"
	"github.com/burningass23/kraft-broker/internal/metadatalog"
	"github.com/burningass23/kraft-broker/internal/metrics"
	"github.com/burningass23/kraft-broker/pkg/kbin"
	"github.com/burningass23/kraft-broker/pkg/kmsg"
)

// maxMessageSize bounds a single framed message. A client announcing a
// larger size is treated the same as a malformed one (spec §4.6 step 2).
const maxMessageSize = 100 << 20 // 100 MiB

// Broker accepts TCP connections and serves the three supported API
// calls out of a single KRaft metadata-log file.
type Broker struct {
	cfg     config.Config
	log     klog.Logger
	metrics *metrics.Metrics

	listener net.Listener
	wg       sync.WaitGroup
	shutdown chan struct{}

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}
}

// New returns a Broker ready to Start. log and m may be nil-safe
// defaults: a nil Metrics is a no-op; a nil Logger is replaced with one
// that discards everything.
func New(cfg config.Config, log klog.Logger, m *metrics.Metrics) *Broker {
	if log == nil {
		log = klog.Nop()
	}
	return &Broker{
		cfg:      cfg,
		log:      log,
		metrics:  m,
		shutdown: make(chan struct{}),
		conns:    make(map[net.Conn]struct{}),
	}
}

// Start binds the listen address and begins accepting connections in
// the background. It returns once the listener is bound.
func (b *Broker) Start() error {
	l, err := net.Listen("tcp", b.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("broker: listen %s: %w", b.cfg.ListenAddr, err)
	}
	b.listener = l
	b.log.Info("broker listening", klog.String("addr", b.cfg.ListenAddr))

	b.wg.Add(1)
	go b.acceptLoop()
	return nil
}

// Stop closes the listener and every open connection, then waits for
// all connection goroutines to exit.
func (b *Broker) Stop() error {
	close(b.shutdown)

	var err error
	if b.listener != nil {
		err = b.listener.Close()
	}

	b.connsMu.Lock()
	for c := range b.conns {
		c.Close()
	}
	b.connsMu.Unlock()

	b.wg.Wait()
	b.log.Info("broker stopped")
	return err
}

func (b *Broker) acceptLoop() {
	defer b.wg.Done()

	for {
		conn, err := b.listener.Accept()
		if err != nil {
			select {
			case <-b.shutdown:
				return
			default:
				b.log.Error("accept failed", klog.Error(err))
				continue
			}
		}

		b.connsMu.Lock()
		b.conns[conn] = struct{}{}
		b.connsMu.Unlock()
		b.metrics.ConnOpened()
		b.log.Info("connection opened", klog.String("remote_addr", conn.RemoteAddr().String()))

		b.wg.Add(1)
		go b.handleConn(conn)
	}
}

func (b *Broker) handleConn(conn net.Conn) {
	defer func() {
		conn.Close()
		b.connsMu.Lock()
		delete(b.conns, conn)
		b.connsMu.Unlock()
		b.metrics.ConnClosed()
		b.wg.Done()
	}()

	remote := conn.RemoteAddr().String()
	r := bufio.NewReader(conn)

	for {
		body, err := readFramedMessage(r)
		if err != nil {
			if err == io.EOF {
				b.log.Debug("connection closed by peer", klog.String("remote_addr", remote))
				return
			}
			b.log.Error("i/o error reading request", klog.String("remote_addr", remote), klog.Error(err))
			b.metrics.IncError("io")
			return
		}

		resp, apiKey, err := b.dispatch(body)
		if apiKey != 0 {
			b.metrics.IncRequest(apiKey)
		}
		if err != nil {
			b.log.Error("request failed, closing connection",
				klog.String("remote_addr", remote), klog.Int16("api_key", apiKey), klog.Error(err))
			b.metrics.IncError(errorKind(err))
			return
		}

		if err := writeFramedMessage(conn, resp); err != nil {
			b.log.Error("i/o error writing response", klog.String("remote_addr", remote), klog.Error(err))
			b.metrics.IncError("io")
			return
		}
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedRequest):
		return "malformed_request"
	case errors.Is(err, ErrUnsupportedAPIKey):
		return "unsupported_api_key"
	case errors.Is(err, ErrMalformedMetadata):
		return "malformed_metadata"
	default:
		return "io"
	}
}

// readFramedMessage reads one length-prefixed message body. It returns
// io.EOF (unwrapped) whenever the 4-byte length prefix cannot be peeked,
// whether the peer closed or the read failed before a full prefix
// arrived, matching the "peek fails -> close cleanly" rule
// (spec §4.6 step 1).
func readFramedMessage(r *bufio.Reader) ([]byte, error) {
	if _, err := r.Peek(4); err != nil {
		return nil, io.EOF
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: length prefix: %v", ErrIO, err)
	}
	size := int32(lenBuf[0])<<24 | int32(lenBuf[1])<<16 | int32(lenBuf[2])<<8 | int32(lenBuf[3])
	if size < 0 || size > maxMessageSize {
		return nil, fmt.Errorf("%w: invalid message size %d", ErrMalformedRequest, size)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: message body: %v", ErrIO, err)
	}
	return body, nil
}

func writeFramedMessage(w io.Writer, body []byte) error {
	frame := make([]byte, 0, 4+len(body))
	frame = kbin.AppendInt32(frame, int32(len(body)))
	frame = append(frame, body...)
	_, err := w.Write(frame)
	return err
}

// dispatch decodes the header to resolve the API key, then decodes and
// runs the matching handler. It returns the encoded response bytes, the
// resolved API key (0 if the header itself failed to decode), and a
// fatal error if one occurred — including an unknown API key, which has
// no defined response and simply closes the connection (spec §4.6,
// §9).
func (b *Broker) dispatch(body []byte) (resp []byte, apiKey int16, err error) {
	headerReader := kbin.NewReader(body)
	var hdr kmsg.HeaderV2
	hdr.ReadFrom(headerReader)
	if headerReader.Err() != nil {
		return nil, 0, fmt.Errorf("%w: header: %v", ErrMalformedRequest, headerReader.Err())
	}
	apiKey = hdr.APIKey

	switch apiKey {
	case kmsg.ApiVersionsKey:
		r := kbin.NewReader(body)
		var req kmsg.ApiVersionsRequest
		req.ReadFrom(r)
		if r.Err() != nil {
			return nil, apiKey, fmt.Errorf("%w: ApiVersions: %v", ErrMalformedRequest, r.Err())
		}
		out := handler.ApiVersions(&req)
		return out.AppendTo(nil), apiKey, nil

	case kmsg.DescribeTopicPartitionsKey:
		r := kbin.NewReader(body)
		var req kmsg.DescribeTopicPartitionsRequest
		req.ReadFrom(r)
		if r.Err() != nil {
			return nil, apiKey, fmt.Errorf("%w: DescribeTopicPartitions: %v", ErrMalformedRequest, r.Err())
		}
		out, herr := handler.DescribeTopicPartitions(&req, b.cfg.MetadataLogPath)
		if herr != nil {
			if errors.Is(herr, metadatalog.ErrMalformedMetadata) {
				return nil, apiKey, fmt.Errorf("%w: %v", ErrMalformedMetadata, herr)
			}
			return nil, apiKey, fmt.Errorf("%w: %v", ErrIO, herr)
		}
		return out.AppendTo(nil), apiKey, nil

	case kmsg.FetchKey:
		r := kbin.NewReader(body)
		var req kmsg.FetchRequest
		req.ReadFrom(r)
		if r.Err() != nil {
			return nil, apiKey, fmt.Errorf("%w: Fetch: %v", ErrMalformedRequest, r.Err())
		}
		out, herr := handler.Fetch(&req, b.cfg.MetadataLogPath)
		if herr != nil {
			if errors.Is(herr, metadatalog.ErrMalformedMetadata) {
				return nil, apiKey, fmt.Errorf("%w: %v", ErrMalformedMetadata, herr)
			}
			return nil, apiKey, fmt.Errorf("%w: %v", ErrIO, herr)
		}
		return out.AppendTo(nil), apiKey, nil

	default:
		return nil, apiKey, fmt.Errorf("%w: api_key=%d", ErrUnsupportedAPIKey, apiKey)
	}
}
