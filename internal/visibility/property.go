package visibility

import "github.com/bomalink/bomalink/internal/models"

// PropertyParams are the recognized query parameters of a property listing
// request, already parsed by the handler.
type PropertyParams struct {
	Featured     bool
	IsAdmin      bool
	Status       string
	UserID       string
	Type         string
	PropertyType string
	PriceMin     *int64
	PriceMax     *int64
	Location     string
	Limit        int
}

const maxListingLimit = 100

// PropertyQuery resolves which property rows the caller may see.
//
// Precedence, most specific first: the featured carousel ignores the caller
// entirely; an admin asking for the admin view sees everything; an explicit
// status filter wins over ownership; a userId filter returns that owner's
// listings (all statuses for the owner themselves, approved only for anyone
// else); the default public view is approved listings, unioned with the
// caller's own, narrowed by the optional content filters.
func PropertyQuery(caller Caller, p PropertyParams) Query {
	b := &builder{}

	switch {
	case p.Featured:
		b.add("status = ?", string(models.PropertyApproved))
		b.add("is_featured = TRUE")

	case p.IsAdmin && caller.Admin():
		// unrestricted

	case p.Status != "":
		b.add("status = ?", p.Status)
		if p.UserID != "" {
			b.add("owner_id = ?", p.UserID)
		}

	case p.UserID != "":
		if p.UserID == caller.ID {
			b.add("owner_id = ?", p.UserID)
		} else {
			b.add("owner_id = ?", p.UserID)
			b.add("status = ?", string(models.PropertyApproved))
		}

	default:
		if caller.Anonymous() {
			b.add("status = ?", string(models.PropertyApproved))
		} else {
			b.add("(status = ? OR owner_id = ?)", string(models.PropertyApproved), caller.ID)
		}
		propertyContentFilters(b, p)
	}

	q := b.query()
	q.Limit = clampLimit(p.Limit)
	return q
}

func propertyContentFilters(b *builder, p PropertyParams) {
	if p.Type != "" {
		b.add("type = ?", p.Type)
	}
	if p.PropertyType != "" {
		b.add("property_type = ?", p.PropertyType)
	}
	if p.PriceMin != nil {
		b.add("price >= ?", *p.PriceMin)
	}
	if p.PriceMax != nil {
		b.add("price <= ?", *p.PriceMax)
	}
	if p.Location != "" {
		pattern := "%" + p.Location + "%"
		b.add(`(location->>'city' ILIKE ? OR location->>'state' ILIKE ? OR location->>'country' ILIKE ? OR location->>'address' ILIKE ?)`,
			pattern, pattern, pattern, pattern)
	}
}

func clampLimit(limit int) int {
	if limit < 0 {
		return 0
	}
	if limit > maxListingLimit {
		return maxListingLimit
	}
	return limit
}
