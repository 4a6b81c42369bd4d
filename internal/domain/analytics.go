package domain

import "time"

// EventType enumerates analytics events recorded against a profile.
type EventType string

const (
	EventProfileView  EventType = "profile_view"
	EventContactClick EventType = "contact_click"
)

// AnalyticsEvent is a single recorded interaction with a profile.
type AnalyticsEvent struct {
	CompanionID  string
	Type         EventType
	ViewerAuthID string
	Country      string
	CreatedAt    time.Time
}

// AnalyticsSummary aggregates events for one companion over a window.
type AnalyticsSummary struct {
	Since        time.Time
	Totals       map[EventType]int
	ByCountry    map[string]int
	UniqueViewer int
}

// StatsSummary holds public marketplace counters.
type StatsSummary struct {
	Companions int64
	Verified   int64
	Cities     int64
	Reviews    int64
}
