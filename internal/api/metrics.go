package api

import (
	"sync/atomic"
	"time"
)

// Metrics tracks server statistics using atomic operations for thread-safety
type Metrics struct {
	RequestsTotal  atomic.Int64
	ClientErrors   atomic.Int64
	ServerErrors   atomic.Int64
	BoardsComputed atomic.Int64
	InFlight       atomic.Int32
	StartTime      time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// observe records a finished request by status code
func (m *Metrics) observe(status int) {
	m.RequestsTotal.Add(1)
	switch {
	case status >= 500:
		m.ServerErrors.Add(1)
	case status >= 400:
		m.ClientErrors.Add(1)
	}
}

// IncBoardsComputed increments the board computations counter
func (m *Metrics) IncBoardsComputed() {
	m.BoardsComputed.Add(1)
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	RequestsTotal  int64     `json:"requestsTotal"`
	ClientErrors   int64     `json:"clientErrors"`
	ServerErrors   int64     `json:"serverErrors"`
	BoardsComputed int64     `json:"boardsComputed"`
	InFlight       int32     `json:"inFlight"`
	StartTime      time.Time `json:"startTime"`
	Uptime         string    `json:"uptime"`
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestsTotal:  m.RequestsTotal.Load(),
		ClientErrors:   m.ClientErrors.Load(),
		ServerErrors:   m.ServerErrors.Load(),
		BoardsComputed: m.BoardsComputed.Load(),
		InFlight:       m.InFlight.Load(),
		StartTime:      m.StartTime,
		Uptime:         time.Since(m.StartTime).Round(time.Second).String(),
	}
}
