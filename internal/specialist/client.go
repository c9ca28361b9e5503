// Package specialist implements the optional LLM translator/specialist
// backend client: a thin gRPC wrapper that satisfies router.Translator
// without depending on protoc-generated service stubs. Requests and
// responses travel as google.protobuf.Struct, which every gRPC server
// that speaks protobuf can decode regardless of which language or
// schema-generation pipeline produced it.
package specialist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/annassistant/annad/internal/router"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// resolveMethod is the fully-qualified gRPC method the specialist
// backend must expose. It takes and returns google.protobuf.Struct,
// so no generated client stub is required on either side.
const resolveMethod = "/anna.specialist.v1.Specialist/Resolve"

// Client implements router.Translator by calling a specialist backend
// over gRPC. Uses insecure (plaintext) transport, matching the
// assumption that the backend runs as a local sidecar, not across a
// network boundary.
type Client struct {
	conn *grpc.ClientConn
}

// NewClient dials addr without blocking; connection errors surface on
// the first Translate call, matching grpc.NewClient's lazy-connect
// semantics.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("specialist: dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// translateRequest is the wire shape sent to the specialist backend.
type translateRequest struct {
	Query          string `json:"query"`
	RuntimeContext string `json:"runtime_context"`
}

// Translate satisfies router.Translator. It marshals the request into
// a structpb.Struct, invokes resolveMethod generically, and unmarshals
// the reply's Struct back into a router.TranslatorResponse via JSON -
// the same representation both ends already agree on.
func (c *Client) Translate(ctx context.Context, query string, runtimeContext string) (router.TranslatorResponse, error) {
	reqStruct, err := toStruct(translateRequest{Query: query, RuntimeContext: runtimeContext})
	if err != nil {
		return router.TranslatorResponse{}, fmt.Errorf("specialist: encode request: %w", err)
	}

	respStruct := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, resolveMethod, reqStruct, respStruct); err != nil {
		if s, ok := status.FromError(err); ok && s.Code() == codes.DeadlineExceeded {
			return router.TranslatorResponse{}, context.DeadlineExceeded
		}
		return router.TranslatorResponse{}, fmt.Errorf("specialist: invoke %s: %w", resolveMethod, err)
	}

	var resp router.TranslatorResponse
	if err := fromStruct(respStruct, &resp); err != nil {
		return router.TranslatorResponse{}, fmt.Errorf("specialist: decode response: %w", err)
	}
	return resp, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func fromStruct(s *structpb.Struct, v any) error {
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
