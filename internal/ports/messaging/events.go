package messaging

import "time"

// ReportTrigger says who asked for a report email.
type ReportTrigger string

const (
	TriggerManual   ReportTrigger = "manual"
	TriggerSchedule ReportTrigger = "schedule"
)

// ReportRequestedEvent is the JSON payload sent via SQS for the report queue.
// ReportDate is a YYYY-MM-DD business day.
type ReportRequestedEvent struct {
	RequestID   string        `json:"requestId"`
	ReportDate  string        `json:"reportDate"`
	Trigger     ReportTrigger `json:"trigger"`
	RequestedAt time.Time     `json:"requestedAt"`
}
