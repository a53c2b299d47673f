package domain

// Lookup is a generic id+name reference row (statuses, types, priorities,
// categories, subcategories, assistance types, departments, locals). The
// engine treats these as opaque beyond the status ids it hard-codes.
type Lookup struct {
	ID   int64
	Name string
}
