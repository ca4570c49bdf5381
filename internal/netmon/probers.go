package netmon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-workout-keeper/internal/utils"
)

var ErrNotServing = errors.New("remote service is not serving")

// PingPath is the reachability endpoint of the remote service.
const PingPath = "/api/ping"

// HTTPProber probes the remote service with GET /api/ping.
type HTTPProber struct {
	client *utils.HTTPClient
}

func NewHTTPProber(baseURL string, timeout time.Duration) *HTTPProber {
	return &HTTPProber{client: utils.NewHTTPClient(baseURL, timeout)}
}

func (p *HTTPProber) Probe(ctx context.Context) error {
	resp, err := p.client.R().SetContext(ctx).Get(PingPath)
	if err != nil {
		return fmt.Errorf("ping request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: ping returned %d", ErrNotServing, resp.StatusCode())
	}
	return nil
}

// GRPCHealthProber probes grpc.health.v1.Health/Check on the gRPC address.
type GRPCHealthProber struct {
	conn    *grpc.ClientConn
	client  healthpb.HealthClient
	timeout time.Duration
}

// NewGRPCHealthProber creates the client connection lazily; no dial happens
// until the first probe.
func NewGRPCHealthProber(address string, timeout time.Duration) (*GRPCHealthProber, error) {
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("error creating grpc health client: %w", err)
	}

	return &GRPCHealthProber{
		conn:    conn,
		client:  healthpb.NewHealthClient(conn),
		timeout: timeout,
	}, nil
}

func (p *GRPCHealthProber) Probe(ctx context.Context) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrNotServing, resp.GetStatus())
	}
	return nil
}

func (p *GRPCHealthProber) Close() error {
	return p.conn.Close()
}
