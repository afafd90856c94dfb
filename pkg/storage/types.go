package storage

import "time"

// Report is a metric report as received by the collection sink.
type Report struct {
	ID         int64     `json:"id"`
	ReceivedAt time.Time `json:"received_at"`

	// Indexed fields, copied out of the body
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Pathname  string `json:"pathname,omitempty"`

	// Body is the report object exactly as delivered.
	Body string `json:"body"`
}

// MetricStats summarizes stored reports of one metric.
type MetricStats struct {
	Name         string `json:"name"`
	ReportCount  int    `json:"report_count"`
	SessionCount int    `json:"session_count"`
}
