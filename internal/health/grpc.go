package health

import (
	"context"
	"net/http"

	"connectrpc.com/grpchealth"
)

// AlertsServiceName is reported to gRPC health clients alongside the
// empty whole-server name.
const AlertsServiceName = "primind.attendance.alerts.v1"

type grpcChecker struct {
	checker *Checker
}

// GRPCHandler serves the grpc.health.v1 protocol backed by the same
// dependency checks as the readiness probe.
func (c *Checker) GRPCHandler() (string, http.Handler) {
	return grpchealth.NewHandler(&grpcChecker{checker: c})
}

func (g *grpcChecker) Check(ctx context.Context, req *grpchealth.CheckRequest) (*grpchealth.CheckResponse, error) {
	switch req.Service {
	case "", AlertsServiceName:
	default:
		return &grpchealth.CheckResponse{Status: grpchealth.StatusUnknown}, nil
	}

	if g.checker.Check(ctx).Status != StatusHealthy {
		return &grpchealth.CheckResponse{Status: grpchealth.StatusNotServing}, nil
	}
	return &grpchealth.CheckResponse{Status: grpchealth.StatusServing}, nil
}
