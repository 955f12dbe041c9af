package entities

// TagSet is an immutable set of tags that remembers first-seen order
type TagSet struct {
	order []string
	index map[string]struct{}
}

// NewTagSet builds a set from tags, collapsing duplicates
func NewTagSet(tags ...string) TagSet {
	set := TagSet{
		order: make([]string, 0, len(tags)),
		index: make(map[string]struct{}, len(tags)),
	}
	for _, tag := range tags {
		set.add(tag)
	}
	return set
}

func (s *TagSet) add(tag string) {
	if _, exists := s.index[tag]; exists {
		return
	}
	s.index[tag] = struct{}{}
	s.order = append(s.order, tag)
}

// Contains reports exact membership
func (s TagSet) Contains(tag string) bool {
	_, ok := s.index[tag]
	return ok
}

// Len returns the number of distinct tags
func (s TagSet) Len() int {
	return len(s.order)
}

// Values returns the tags in first-seen order
func (s TagSet) Values() []string {
	values := make([]string, len(s.order))
	copy(values, s.order)
	return values
}

// With returns a new set holding these tags plus the given ones
func (s TagSet) With(tags ...string) TagSet {
	next := NewTagSet(s.order...)
	for _, tag := range tags {
		next.add(tag)
	}
	return next
}
