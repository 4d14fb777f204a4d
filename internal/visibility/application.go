package visibility

// ApplicationQuery restricts applications to the caller's own rows. Admins
// see every application.
func ApplicationQuery(caller Caller) Query {
	b := &builder{}
	if !caller.Admin() {
		b.add("a.user_id = ?", caller.ID)
	}
	return b.query()
}
