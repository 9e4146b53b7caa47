package genome

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// referenceProto is the wire contract of a remote reference service. It
// is compiled at runtime with protoparse, so no generated stubs are
// required.
const referenceProtoFile = "gex/reference/v1/reference.proto"

const referenceProto = `syntax = "proto3";

package gex.reference.v1;

message GetReferenceRequest {
  string name = 1;
}

message ContigDef {
  string name = 1;
  int32 length = 2;
}

message ParDef {
  string contig = 1;
  int32 start = 2;
  int32 end = 3;
}

message GetReferenceResponse {
  string name = 1;
  repeated ContigDef contigs = 2;
  repeated string x_contigs = 3;
  repeated string y_contigs = 4;
  repeated string mt_contigs = 5;
  repeated ParDef par = 6;
}

service ReferenceService {
  rpc GetReference(GetReferenceRequest) returns (GetReferenceResponse);
}
`

var (
	referenceMethodOnce sync.Once
	referenceMethod     *desc.MethodDescriptor
	referenceMethodErr  error
)

func referenceMethodDescriptor() (*desc.MethodDescriptor, error) {
	referenceMethodOnce.Do(func() {
		parser := protoparse.Parser{
			Accessor: protoparse.FileContentsFromMap(map[string]string{
				referenceProtoFile: referenceProto,
			}),
		}
		fds, err := parser.ParseFiles(referenceProtoFile)
		if err != nil {
			referenceMethodErr = fmt.Errorf("parsing embedded reference proto: %w", err)
			return
		}
		svc := fds[0].FindService("gex.reference.v1.ReferenceService")
		if svc == nil {
			referenceMethodErr = fmt.Errorf("embedded reference proto: service not found")
			return
		}
		referenceMethod = svc.FindMethodByName("GetReference")
		if referenceMethod == nil {
			referenceMethodErr = fmt.Errorf("embedded reference proto: GetReference not found")
		}
	})
	return referenceMethod, referenceMethodErr
}

// Client fetches reference genome definitions from a remote reference
// service. Requests and responses are dynamic protobuf messages built
// from the embedded contract.
type Client struct {
	conn   *grpc.ClientConn
	method *desc.MethodDescriptor
}

// Dial connects to a reference service.
func Dial(target string) (*Client, error) {
	md, err := referenceMethodDescriptor()
	if err != nil {
		return nil, err
	}
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dialing reference service %s: %w", target, err)
	}
	return &Client{conn: conn, method: md}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// GetReference fetches one genome definition by name.
func (c *Client) GetReference(ctx context.Context, name string) (*ReferenceGenome, error) {
	req := dynamic.NewMessage(c.method.GetInputType())
	req.SetFieldByName("name", name)
	resp := dynamic.NewMessage(c.method.GetOutputType())

	methodPath := "/" + c.method.GetService().GetFullyQualifiedName() + "/" + c.method.GetName()
	if err := c.conn.Invoke(ctx, methodPath, req, resp); err != nil {
		return nil, fmt.Errorf("fetching reference genome %s: %w", name, err)
	}
	return decodeReference(resp)
}

// FetchInto fetches the named genomes and registers each in the registry.
func (c *Client) FetchInto(ctx context.Context, r *Registry, names ...string) error {
	for _, name := range names {
		rg, err := c.GetReference(ctx, name)
		if err != nil {
			return err
		}
		if err := r.Add(rg); err != nil {
			return err
		}
	}
	return nil
}

func decodeReference(msg *dynamic.Message) (*ReferenceGenome, error) {
	name, _ := msg.GetFieldByName("name").(string)

	var contigs []Contig
	for _, raw := range repeatedMessages(msg.GetFieldByName("contigs")) {
		cname, _ := raw.GetFieldByName("name").(string)
		length, _ := raw.GetFieldByName("length").(int32)
		contigs = append(contigs, Contig{Name: cname, Length: length})
	}

	var par []Region
	for _, raw := range repeatedMessages(msg.GetFieldByName("par")) {
		contig, _ := raw.GetFieldByName("contig").(string)
		start, _ := raw.GetFieldByName("start").(int32)
		end, _ := raw.GetFieldByName("end").(int32)
		par = append(par, Region{Contig: contig, Start: start, End: end})
	}

	rg, err := New(name, contigs,
		stringSlice(msg.GetFieldByName("x_contigs")),
		stringSlice(msg.GetFieldByName("y_contigs")),
		stringSlice(msg.GetFieldByName("mt_contigs")),
		par)
	if err != nil {
		return nil, fmt.Errorf("reference service returned invalid genome: %w", err)
	}
	return rg, nil
}

func repeatedMessages(v interface{}) []*dynamic.Message {
	slice, ok := v.([]interface{})
	if !ok {
		return nil
	}
	msgs := make([]*dynamic.Message, 0, len(slice))
	for _, item := range slice {
		if m, ok := item.(*dynamic.Message); ok {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

func stringSlice(v interface{}) []string {
	slice, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(slice))
	for _, item := range slice {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
