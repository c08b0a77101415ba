// Package transport defines the bidirectional message stream a session plays over.
package transport

import (
	"context"

	"github.com/DoyleJ11/hearts-client/internal/types"
)

// Stream carries typed envelopes in both directions.
//
// Recv returns io.EOF when the authority ends the stream cleanly. CloseSend asks for a
// clean end from the client side; Close releases the underlying connection and is safe
// to call more than once.
type Stream interface {
	Send(ctx context.Context, msg types.ClientMessage) error
	Recv(ctx context.Context) (types.ServerMessage, error)
	CloseSend(ctx context.Context) error
	Close() error
}
