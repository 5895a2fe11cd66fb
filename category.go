package hoot

import "strconv"

// Category partitions the subscribers of a message type. The zero value is
// the global category.
type Category struct {
	name  string
	named bool
}

// Well-known categories. Using them is a convention, the service does not
// treat them differently from any other name.
var (
	Added   = Named("Added")
	Removed = Named("Removed")
	Created = Named("Created")
	Updated = Named("Updated")
	Deleted = Named("Deleted")
)

// Global is the category-less partition. Its subscribers receive every
// message of their type.
func Global() Category {
	return Category{}
}

// Named returns the category called name. The empty name is a valid category
// and is not the same as Global.
func Named(name string) Category {
	return Category{name: name, named: true}
}

// IsGlobal reports whether c is the global category.
func (c Category) IsGlobal() bool {
	return !c.named
}

// Name returns the category name, empty for the global category.
func (c Category) Name() string {
	return c.name
}

func (c Category) String() string {
	if !c.named {
		return "(global)"
	}
	return strconv.Quote(c.name)
}
