// Package grpcstream carries session envelopes over a gRPC bidirectional stream.
//
// Frames are google.protobuf.Struct values holding the JSON form of the envelopes, so
// the client does not depend on generated stubs for the authority's service.
package grpcstream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/DoyleJ11/hearts-client/internal/types"
)

const (
	ServiceName   = "playhearts.PlayHearts"
	ConnectMethod = "/" + ServiceName + "/Connect"
)

// ConnectDesc describes the Connect bidi stream for both clients and test servers.
var ConnectDesc = grpc.StreamDesc{
	StreamName:    "Connect",
	ServerStreams: true,
	ClientStreams: true,
}

// DefaultDialOptions returns the dial options used for the authority connection.
// Includes the OTel stats handler so stream telemetry follows any registered provider.
func DefaultDialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// Stream is a transport.Stream over one Connect call. The call lives as long as the
// context passed to Dial; Recv ignores its own context argument. A Send that outlives
// its context cancels the whole call.
type Stream struct {
	conn   *grpc.ClientConn
	stream grpc.ClientStream
	cancel context.CancelFunc
	sendMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

func Dial(ctx context.Context, target string, opts ...grpc.DialOption) (*Stream, error) {
	conn, err := grpc.NewClient(target, append(DefaultDialOptions(), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	cs, err := conn.NewStream(streamCtx, &ConnectDesc, ConnectMethod)
	if err != nil {
		cancel()
		_ = conn.Close()
		return nil, fmt.Errorf("open %s: %w", ConnectMethod, err)
	}
	return &Stream{conn: conn, stream: cs, cancel: cancel}, nil
}

func (s *Stream) Send(ctx context.Context, msg types.ClientMessage) error {
	frame, err := ToFrame(msg)
	if err != nil {
		return err
	}

	// SendMsg blocks on flow control when the authority stops reading.
	done := make(chan error, 1)
	go func() {
		s.sendMu.Lock()
		defer s.sendMu.Unlock()
		done <- s.stream.SendMsg(frame)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		s.cancel()
		return fmt.Errorf("send: %w", ctx.Err())
	}
}

func (s *Stream) Recv(context.Context) (types.ServerMessage, error) {
	frame := new(structpb.Struct)
	if err := s.stream.RecvMsg(frame); err != nil {
		return types.ServerMessage{}, err
	}
	var msg types.ServerMessage
	if err := FromFrame(frame, &msg); err != nil {
		return types.ServerMessage{}, err
	}
	return msg, nil
}

func (s *Stream) CloseSend(context.Context) error {
	return s.stream.CloseSend()
}

func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

// ToFrame converts any JSON-encodable envelope into a Struct frame.
func ToFrame(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	frame := new(structpb.Struct)
	if err := protojson.Unmarshal(b, frame); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return frame, nil
}

// FromFrame decodes a Struct frame into an envelope.
func FromFrame(frame *structpb.Struct, v any) error {
	b, err := protojson.Marshal(frame)
	if err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	return nil
}
