// Package wire defines the frames exchanged between the bridge daemon
// and its clients. The messages are kept in hand-written protobuf
// APIv1 form; the struct tags drive the reflection-based codec.
package wire

import "github.com/golang/protobuf/proto"

// Request asks the bridge to run one command exchange on the module.
type Request struct {
	Seq     uint32 `protobuf:"varint,1,opt,name=seq" json:"seq,omitempty"`
	Command string `protobuf:"bytes,2,opt,name=command" json:"command,omitempty"`
}

// Reset implements proto.Message.
func (m *Request) Reset() { *m = Request{} }

// String implements proto.Message.
func (m *Request) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Request) ProtoMessage() {}

// Encode marshals the frame.
func (m *Request) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// Reply carries the outcome of one exchange. Error is empty on
// success.
type Reply struct {
	Seq      uint32 `protobuf:"varint,1,opt,name=seq" json:"seq,omitempty"`
	Response string `protobuf:"bytes,2,opt,name=response" json:"response,omitempty"`
	Error    string `protobuf:"bytes,3,opt,name=error" json:"error,omitempty"`
}

// Reset implements proto.Message.
func (m *Reply) Reset() { *m = Reply{} }

// String implements proto.Message.
func (m *Reply) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Reply) ProtoMessage() {}

// Encode marshals the frame.
func (m *Reply) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeRequest unmarshals a Request frame.
func DecodeRequest(data []byte) (*Request, error) {
	req := &Request{}
	if err := proto.Unmarshal(data, req); err != nil {
		return nil, err
	}
	return req, nil
}

// DecodeReply unmarshals a Reply frame.
func DecodeReply(data []byte) (*Reply, error) {
	reply := &Reply{}
	if err := proto.Unmarshal(data, reply); err != nil {
		return nil, err
	}
	return reply, nil
}
