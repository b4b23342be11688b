package exiftool

import "iter"

// Store is an ordered collection of tags from a single read. A Store is never
// modified after construction; each read produces a new one.
type Store struct {
	tags []Tag
}

// Group is a contiguous run of tags sharing a group label.
type Group struct {
	Name string
	Tags []Tag
}

// NewStore copies tags into a new Store, preserving order.
func NewStore(tags []Tag) *Store {
	return &Store{tags: append([]Tag(nil), tags...)}
}

// Len returns the number of tags.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tags)
}

// IsEmpty reports whether the store has no tags.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Tags returns a copy of the tags in insertion order.
func (s *Store) Tags() []Tag {
	if s == nil {
		return nil
	}
	return append([]Tag(nil), s.tags...)
}

// All iterates the tags in insertion order.
func (s *Store) All() iter.Seq[Tag] {
	return func(yield func(Tag) bool) {
		if s == nil {
			return
		}
		for _, tag := range s.tags {
			if !yield(tag) {
				return
			}
		}
	}
}

// Find returns the first tag with the given name.
func (s *Store) Find(name string) (Tag, bool) {
	for tag := range s.All() {
		if tag.Name == name {
			return tag, true
		}
	}
	return Tag{}, false
}

// Groups splits the tags into contiguous runs by group label. Labels are not
// merged or re-sorted: a label that reappears later starts a new run.
func (s *Store) Groups() []Group {
	var groups []Group
	for tag := range s.All() {
		if n := len(groups); n > 0 && groups[n-1].Name == tag.Group {
			groups[n-1].Tags = append(groups[n-1].Tags, tag)
			continue
		}
		groups = append(groups, Group{Name: tag.Group, Tags: []Tag{tag}})
	}
	return groups
}

// Extractable returns the tags carrying a binary payload marker.
func (s *Store) Extractable() []Tag {
	var out []Tag
	for tag := range s.All() {
		if tag.Extractable() {
			out = append(out, tag)
		}
	}
	return out
}
