package domain

// ItemFilter narrows vault item listings. Zero values mean "no filter".
// Tag names are matched with OR logic: an item qualifies when it carries any
// of the named tags.
type ItemFilter struct {
	Type        ItemType
	Source      ItemSource
	TagNames    []string
	SearchTitle string
}
