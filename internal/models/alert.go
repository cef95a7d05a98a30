package models

import "time"

// Alert is a user-defined threshold on one metric of a monitored URL.
// Crossing the threshold records an AlertEvent; delivery of notifications
// is out of scope for this server.
type Alert struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Metric    string    `json:"metric"`
	Threshold int       `json:"threshold"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

// AlertEvent records one threshold crossing observed on a monitor tick.
type AlertEvent struct {
	ID          int64     `json:"id"`
	AlertID     string    `json:"alertId"`
	URL         string    `json:"url"`
	Metric      string    `json:"metric"`
	Value       int       `json:"value"`
	Threshold   int       `json:"threshold"`
	TriggeredAt time.Time `json:"triggeredAt"`
}

// CreateAlertParams is the payload for creating an alert.
type CreateAlertParams struct {
	URL       string `json:"url"`
	Metric    string `json:"metric"`
	Threshold int    `json:"threshold"`
}
