// Package visibility builds the SQL predicates that decide which listing
// records a caller may see. Handlers pass the resolved caller and the request
// parameters in; they get back a WHERE clause and its arguments.
package visibility

import (
	"fmt"
	"strings"

	"github.com/bomalink/bomalink/internal/models"
)

// Caller is the identity behind a request, resolved once from the session
// token and passed by value. The zero Caller is anonymous.
type Caller struct {
	ID   string
	Role models.Role
}

func (c Caller) Anonymous() bool {
	return c.ID == ""
}

func (c Caller) Admin() bool {
	return !c.Anonymous() && c.Role.IsAdmin()
}

// Query is a composed filter: a WHERE clause (possibly empty), its positional
// arguments, and an optional row limit (0 = no limit).
type Query struct {
	Where string
	Args  []any
	Limit int
}

// Clause renders the WHERE keyword and clause, or "" when unrestricted.
func (q Query) Clause() string {
	if q.Where == "" {
		return ""
	}
	return " WHERE " + q.Where
}

// builder accumulates ANDed conditions. Each ? in an expression is rewritten
// to the next positional placeholder.
type builder struct {
	conds []string
	args  []any
}

func (b *builder) add(expr string, vals ...any) {
	for _, v := range vals {
		b.args = append(b.args, v)
		expr = strings.Replace(expr, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.conds = append(b.conds, expr)
}

func (b *builder) query() Query {
	return Query{Where: strings.Join(b.conds, " AND "), Args: b.args}
}
