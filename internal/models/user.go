package models

import "time"

type PlanType string

const (
	PlanStandard PlanType = "standard"
	PlanStudent  PlanType = "student"
	PlanSilver   PlanType = "silver"
	PlanGold     PlanType = "gold"
)

// User is keyed by email across all directories.
type User struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	BirthDate time.Time `json:"birth_date"`
	Plan      PlanType  `json:"plan"`
	Accounts  []string  `json:"accounts"`
}

// AgeAt returns the user's age in full years at the given time.
func (u *User) AgeAt(t time.Time) int {
	years := t.Year() - u.BirthDate.Year()
	anniversary := u.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(t) {
		years--
	}
	return years
}
