package entities

// Dataset is the author-maintained input as loaded from a source, before
// validation. Slice order is source order and is preserved in the output.
type Dataset struct {
	Title         string
	Entities      []Entity
	Relationships []Relationship
}
