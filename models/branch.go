package models

// Branch is the owning location for sessions. Only the fields the session
// generator consults live here; branch administration is handled elsewhere.
type Branch struct {
	ID              string     `bson:"id" json:"id"`
	Name            string     `bson:"name" json:"name"`
	Activities      []Activity `bson:"activities" json:"activities"`             // activities this branch may run
	ClosedOnMondays bool       `bson:"closed_on_mondays" json:"closedOnMondays"` // excludes Mondays from generation
	IsActive        bool       `bson:"is_active" json:"isActive"`
}

// Allows reports whether the branch is permitted to run the given activity.
func (b *Branch) Allows(a Activity) bool {
	for _, allowed := range b.Activities {
		if allowed == a {
			return true
		}
	}
	return false
}
