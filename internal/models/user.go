package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type Profile struct {
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Bio     string `json:"bio,omitempty"`
	Company string `json:"company,omitempty"`
	Website string `json:"website,omitempty"`
}

func (p Profile) Value() (driver.Value, error) { return json.Marshal(p) }
func (p *Profile) Scan(src any) error          { return scanJSON(src, p) }

type User struct {
	ID               string     `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email"`
	Password         string     `db:"password_hash" json:"-"`
	Role             Role       `db:"role" json:"role"`
	Profile          Profile    `db:"profile" json:"profile"`
	ResetToken       *string    `db:"reset_token" json:"-"`
	ResetTokenExpiry *time.Time `db:"reset_token_expiry" json:"-"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
}

// UserSummary is the owner/applicant shape joined onto listings for admin
// views. Dangling references fall back to the Unknown values.
type UserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

var UnknownUser = UserSummary{Name: "Unknown Owner", Email: "No email provided"}
