package domain

// DefaultMaxResults is the default page size when none is specified.
const DefaultMaxResults = 20

// MaxMaxResults is the maximum allowed page size.
const MaxMaxResults = 1000

// PageRequest holds pagination parameters for list operations.
type PageRequest struct {
	Start      int // offset of the first item
	MaxResults int
}

// Offset returns the effective start offset, clamped to >= 0.
func (p PageRequest) Offset() int {
	if p.Start < 0 {
		return 0
	}
	return p.Start
}

// Limit returns the effective page size, clamped to [1, MaxMaxResults].
func (p PageRequest) Limit() int {
	if p.MaxResults <= 0 {
		return DefaultMaxResults
	}
	if p.MaxResults > MaxMaxResults {
		return MaxMaxResults
	}
	return p.MaxResults
}
