package models

import "time"

type ContactStatus string

const (
	ContactNew       ContactStatus = "new"
	ContactRead      ContactStatus = "read"
	ContactResponded ContactStatus = "responded"
)

func ValidContactStatus(s string) bool {
	switch ContactStatus(s) {
	case ContactNew, ContactRead, ContactResponded:
		return true
	}
	return false
}

// Contact is an inquiry submitted by an anonymous visitor about a property.
type Contact struct {
	ID            string        `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Email         string        `db:"email" json:"email"`
	Phone         string        `db:"phone" json:"phone"`
	Message       string        `db:"message" json:"message"`
	PropertyTitle string        `db:"property_title" json:"propertyTitle"`
	Status        ContactStatus `db:"status" json:"status"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
}
