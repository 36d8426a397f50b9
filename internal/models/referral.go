package models

import "time"

type Referral struct {
	ID           int       `json:"id"`
	ReferrerID   int       `json:"referrerId"`
	RefereeName  string    `json:"refereeName"`
	RefereeEmail string    `json:"refereeEmail"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
