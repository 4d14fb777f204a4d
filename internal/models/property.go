package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type PropertyStatus string

const (
	PropertyPending  PropertyStatus = "pending"
	PropertyApproved PropertyStatus = "approved"
	PropertyRejected PropertyStatus = "rejected"
	PropertySold     PropertyStatus = "sold"
	PropertyRented   PropertyStatus = "rented"
)

func ValidPropertyStatus(s string) bool {
	switch PropertyStatus(s) {
	case PropertyPending, PropertyApproved, PropertyRejected, PropertySold, PropertyRented:
		return true
	}
	return false
}

type Location struct {
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

func (l Location) Value() (driver.Value, error) { return json.Marshal(l) }
func (l *Location) Scan(src any) error          { return scanJSON(src, l) }

type Features struct {
	Bedrooms        int     `json:"bedrooms"`
	Bathrooms       int     `json:"bathrooms"`
	Area            float64 `json:"area"`
	Parking         bool    `json:"parking,omitempty"`
	Furnished       bool    `json:"furnished,omitempty"`
	AirConditioning bool    `json:"airConditioning,omitempty"`
	Heating         bool    `json:"heating,omitempty"`
}

func (f Features) Value() (driver.Value, error) { return json.Marshal(f) }
func (f *Features) Scan(src any) error          { return scanJSON(src, f) }

type Image struct {
	URL        string `json:"url" validate:"required"`
	IsFeatured bool   `json:"isFeatured,omitempty"`
}

type Images []Image

func (im Images) Value() (driver.Value, error) {
	if im == nil {
		im = Images{}
	}
	return json.Marshal(im)
}
func (im *Images) Scan(src any) error { return scanJSON(src, im) }

type Property struct {
	ID           string         `db:"id" json:"id"`
	Title        string         `db:"title" json:"title"`
	Description  string         `db:"description" json:"description"`
	Type         string         `db:"type" json:"type"`
	PropertyType string         `db:"property_type" json:"propertyType"`
	Price        int64          `db:"price" json:"price"`
	Location     Location       `db:"location" json:"location"`
	Features     Features       `db:"features" json:"features"`
	Images       Images         `db:"images" json:"images"`
	Status       PropertyStatus `db:"status" json:"status"`
	IsFeatured   bool           `db:"is_featured" json:"isFeatured"`
	OwnerID      string         `db:"owner_id" json:"ownerId"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// PropertyWithOwner is the admin listing shape: the property plus the owning
// user's display fields from a LEFT JOIN on users.
type PropertyWithOwner struct {
	Property
	Owner UserSummary `json:"owner"`
}
