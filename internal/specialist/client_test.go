package specialist

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

// fakeResolveHandler lets each test supply its own Struct -> Struct
// behavior without needing a generated service.
type fakeResolveHandler func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func startFakeSpecialist(t *testing.T, handler fakeResolveHandler) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)

	desc := &grpc.ServiceDesc{
		ServiceName: "anna.specialist.v1.Specialist",
		HandlerType: (*any)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Resolve",
				Handler: func(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
					req := &structpb.Struct{}
					if err := dec(req); err != nil {
						return nil, err
					}
					return handler(ctx, req)
				},
			},
		},
	}

	server := grpc.NewServer()
	server.RegisterService(desc, nil)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestTranslateSuccess(t *testing.T) {
	conn := startFakeSpecialist(t, func(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		require.Equal(t, "how much ram is free", req.Fields["query"].GetStringValue())
		resp, err := structpb.NewStruct(map[string]any{
			"intent":       "question",
			"domain":       "system",
			"entities":     []any{},
			"needs_probes": []any{"free_mem"},
			"confidence":   0.9,
		})
		require.NoError(t, err)
		return resp, nil
	})
	client := &Client{conn: conn}

	resp, err := client.Translate(context.Background(), "how much ram is free", "")
	require.NoError(t, err)
	require.Equal(t, "question", resp.Intent)
	require.Equal(t, "system", resp.Domain)
	require.Equal(t, []string{"free_mem"}, resp.NeedsProbes)
	require.InDelta(t, 0.9, resp.Confidence, 0.0001)
}

func TestTranslateDeadlineExceeded(t *testing.T) {
	conn := startFakeSpecialist(t, func(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
		<-ctx.Done()
		return nil, status.Error(codes.DeadlineExceeded, "deadline exceeded")
	})
	client := &Client{conn: conn}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Translate(ctx, "slow query", "")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTranslatePropagatesBackendError(t *testing.T) {
	conn := startFakeSpecialist(t, func(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
		return nil, status.Error(codes.Internal, "boom")
	})
	client := &Client{conn: conn}

	_, err := client.Translate(context.Background(), "anything", "")
	require.Error(t, err)
}
