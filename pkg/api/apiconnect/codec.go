// Package apiconnect wires the api messages to Connect handlers and clients.
// It mirrors the layout of protoc-gen-connect-go output: one handler
// constructor, one client constructor and one procedure constant per RPC.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec marshals api messages as JSON. It registers under the name "json",
// replacing Connect's protobuf JSON codec, so requests use the
// application/json content type.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}
