package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomalink/bomalink/internal/models"
)

func i64(v int64) *int64 { return &v }

func TestPropertyQuery_AnonymousDefault(t *testing.T) {
	q := PropertyQuery(Caller{}, PropertyParams{})

	assert.Equal(t, "status = $1", q.Where)
	assert.Equal(t, []any{"approved"}, q.Args)
}

func TestPropertyQuery_AuthenticatedDefaultIncludesOwn(t *testing.T) {
	caller := Caller{ID: "u1", Role: models.RoleSeller}
	q := PropertyQuery(caller, PropertyParams{})

	assert.Equal(t, "(status = $1 OR owner_id = $2)", q.Where)
	assert.Equal(t, []any{"approved", "u1"}, q.Args)
}

func TestPropertyQuery_Featured(t *testing.T) {
	// the homepage carousel ignores the caller entirely
	for _, caller := range []Caller{
		{},
		{ID: "u1", Role: models.RoleBuyer},
		{ID: "a1", Role: models.RoleAdmin},
	} {
		q := PropertyQuery(caller, PropertyParams{Featured: true})

		assert.Equal(t, "status = $1 AND is_featured = TRUE", q.Where)
		assert.Equal(t, []any{"approved"}, q.Args)
	}
}

func TestPropertyQuery_AdminView(t *testing.T) {
	admin := Caller{ID: "a1", Role: models.RoleAdmin}
	q := PropertyQuery(admin, PropertyParams{IsAdmin: true})

	assert.Empty(t, q.Where)
	assert.Empty(t, q.Args)
	assert.Equal(t, "", q.Clause())
}

func TestPropertyQuery_IsAdminParamIgnoredForNonAdmins(t *testing.T) {
	// a non-admin asking for the admin view still gets the public predicate
	caller := Caller{ID: "u1", Role: models.RoleBuyer}
	q := PropertyQuery(caller, PropertyParams{IsAdmin: true})

	assert.Equal(t, "(status = $1 OR owner_id = $2)", q.Where)

	q = PropertyQuery(Caller{}, PropertyParams{IsAdmin: true})
	assert.Equal(t, "status = $1", q.Where)
}

func TestPropertyQuery_ExplicitStatus(t *testing.T) {
	caller := Caller{ID: "u1", Role: models.RoleSeller}

	q := PropertyQuery(caller, PropertyParams{Status: "rejected"})
	assert.Equal(t, "status = $1", q.Where)
	assert.Equal(t, []any{"rejected"}, q.Args)

	q = PropertyQuery(caller, PropertyParams{Status: "pending", UserID: "u1"})
	assert.Equal(t, "status = $1 AND owner_id = $2", q.Where)
	assert.Equal(t, []any{"pending", "u1"}, q.Args)
}

func TestPropertyQuery_OwnListings(t *testing.T) {
	caller := Caller{ID: "u1", Role: models.RoleLandlord}
	q := PropertyQuery(caller, PropertyParams{UserID: "u1"})

	// the owner sees every status
	assert.Equal(t, "owner_id = $1", q.Where)
	assert.Equal(t, []any{"u1"}, q.Args)
}

func TestPropertyQuery_OtherUsersListingsApprovedOnly(t *testing.T) {
	caller := Caller{ID: "u1", Role: models.RoleBuyer}
	q := PropertyQuery(caller, PropertyParams{UserID: "u2"})

	assert.Equal(t, "owner_id = $1 AND status = $2", q.Where)
	assert.Equal(t, []any{"u2", "approved"}, q.Args)
}

func TestPropertyQuery_ContentFilters(t *testing.T) {
	q := PropertyQuery(Caller{}, PropertyParams{
		Type:         "sale",
		PropertyType: "apartment",
		PriceMin:     i64(1000),
		PriceMax:     i64(5000),
		Location:     "nairobi",
	})

	require.Contains(t, q.Where, "status = $1")
	assert.Contains(t, q.Where, "type = $2")
	assert.Contains(t, q.Where, "property_type = $3")
	assert.Contains(t, q.Where, "price >= $4")
	assert.Contains(t, q.Where, "price <= $5")
	assert.Contains(t, q.Where, "location->>'city' ILIKE $6")
	assert.Contains(t, q.Where, "location->>'address' ILIKE $9")
	assert.Equal(t, []any{
		"approved", "sale", "apartment", int64(1000), int64(5000),
		"%nairobi%", "%nairobi%", "%nairobi%", "%nairobi%",
	}, q.Args)
}

func TestPropertyQuery_FiltersOnlyApplyToDefaultView(t *testing.T) {
	// the featured and explicit-status branches ignore content filters
	q := PropertyQuery(Caller{}, PropertyParams{Featured: true, Type: "sale"})
	assert.NotContains(t, q.Where, "type =")

	q = PropertyQuery(Caller{ID: "u1"}, PropertyParams{Status: "approved", Type: "sale"})
	assert.NotContains(t, q.Where, "type =")
}

func TestPropertyQuery_LimitClamped(t *testing.T) {
	q := PropertyQuery(Caller{}, PropertyParams{Limit: 20})
	assert.Equal(t, 20, q.Limit)

	q = PropertyQuery(Caller{}, PropertyParams{Limit: 100000})
	assert.Equal(t, maxListingLimit, q.Limit)

	q = PropertyQuery(Caller{}, PropertyParams{Limit: -5})
	assert.Equal(t, 0, q.Limit)
}
