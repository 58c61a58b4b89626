package grpcx

import "fmt"

// Codec encodes the users service messages in protobuf binary format.
// It reports the name "proto" so peers see the standard application/grpc+proto content type.
type Codec struct{}

func (Codec) Name() string { return "proto" }

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(message)
	if !ok {
		return nil, fmt.Errorf("grpcx: cannot marshal %T", v)
	}
	return m.marshalWire(), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(message)
	if !ok {
		return fmt.Errorf("grpcx: cannot unmarshal into %T", v)
	}
	return m.unmarshalWire(data)
}
