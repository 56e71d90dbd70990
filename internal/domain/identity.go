package domain

// Identity addresses one account: a user inside a realm. Both parts are
// opaque strings supplied by the front end.
type Identity struct {
	Realm string `json:"realm"`
	User  string `json:"user"`
}

// Key returns a stable string form used for lock and cache keys
func (id Identity) Key() string {
	return id.Realm + ":" + id.User
}

func (id Identity) String() string {
	return id.Key()
}
