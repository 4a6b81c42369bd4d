package domain

import "time"

// Review is a client's rating of a companion.
type Review struct {
	ID             string
	CompanionID    string
	ReviewerAuthID string
	Rating         int
	Comment        string
	CreatedAt      time.Time
}
