package fetcher

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/scc-reporter/internal/gcpauth"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	securitycenter "google.golang.org/api/securitycenter/v1"
)

// NewService builds a Security Command Center client from ambient credentials.
// Extra options are appended, so tests can point it at a local endpoint.
func NewService(ctx context.Context, extra ...option.ClientOption) (*securitycenter.Service, error) {
	opts := gcpauth.ClientOptions(ctx, securitycenter.CloudPlatformScope)
	opts = append(opts, extra...)

	svc, err := securitycenter.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("securitycenter.NewService: %w", err)
	}
	return svc, nil
}

// NewPageLimiter throttles page requests to perSecond with the given burst.
func NewPageLimiter(perSecond, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
