package visibility

import "github.com/bomalink/bomalink/internal/models"

type JobParams struct {
	Status          string
	Location        string
	EmploymentType  string
	ExperienceLevel string
	Limit           int
}

// JobQuery resolves the job-board filter. The public board only shows active
// jobs; an explicit status is honored for admins, who also see drafts and
// closed postings.
func JobQuery(caller Caller, p JobParams) Query {
	b := &builder{}

	status := string(models.JobActive)
	if p.Status != "" && caller.Admin() {
		status = p.Status
	}
	b.add("status = ?", status)

	if p.Location != "" {
		pattern := "%" + p.Location + "%"
		b.add(`(location->>'city' ILIKE ? OR location->>'state' ILIKE ? OR location->>'country' ILIKE ?)`,
			pattern, pattern, pattern)
	}
	if p.EmploymentType != "" {
		b.add("employment_type = ?", p.EmploymentType)
	}
	if p.ExperienceLevel != "" {
		b.add("experience_level = ?", p.ExperienceLevel)
	}

	q := b.query()
	q.Limit = clampLimit(p.Limit)
	return q
}
