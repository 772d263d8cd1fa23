package services

import (
	"context"
	"runtime"
	"time"

	"dqcli/pkg/contracts"
)

// HealthService reports process health
type HealthService struct {
	service   string
	startTime time.Time
	now       func() time.Time
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
	Runtime   map[string]string `json:"runtime"`
}

// NewHealthService creates a health service for the named service
func NewHealthService(service string) *HealthService {
	return &HealthService{service: service, startTime: time.Now(), now: time.Now}
}

// HealthCheck returns the current status
func (s *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	now := s.now()
	status := "healthy"
	if ctx.Err() != nil {
		status = "unavailable"
	}
	return HealthStatus{
		Status:    status,
		Service:   s.service,
		Version:   contracts.Version,
		Uptime:    now.Sub(s.startTime).Round(time.Second).String(),
		Timestamp: now.UTC(),
		Runtime: map[string]string{
			"go_version": runtime.Version(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
		},
	}
}
