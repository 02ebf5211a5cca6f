package rpc

import (
	"github.com/bytedance/sonic"
	"google.golang.org/grpc/encoding"
)

// ContentSubtype selects the JSON codec: clients send
// grpc.CallContentSubtype(ContentSubtype).
const ContentSubtype = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return ContentSubtype
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
