package domain

import "strings"

// PriceBucket is one of the seven fixed, ascending, non-overlapping price
// ranges used for filtering. The first bucket is closed on both ends; every
// later bucket is open on the lower bound and closed on the upper, and the
// last has no upper bound. A price of exactly 0 is therefore only reachable
// through the first bucket, and 50 belongs to "0-50", not "50-100".
type PriceBucket string

const (
	BucketUpTo50     PriceBucket = "0-50"
	Bucket50To100    PriceBucket = "50-100"
	Bucket100To500   PriceBucket = "100-500"
	Bucket500To1000  PriceBucket = "500-1000"
	Bucket1000To2000 PriceBucket = "1000-2000"
	Bucket2000To5000 PriceBucket = "2000-5000"
	BucketAbove5000  PriceBucket = "5000+"
)

// PriceBuckets returns the buckets in ascending order.
func PriceBuckets() []PriceBucket {
	return []PriceBucket{
		BucketUpTo50, Bucket50To100, Bucket100To500, Bucket500To1000,
		Bucket1000To2000, Bucket2000To5000, BucketAbove5000,
	}
}

// ParsePriceBucket validates a raw bucket token. Unrecognized tokens are a
// validation error rather than a silent no-match; "all" is represented by
// callers as a nil *PriceBucket, never a sentinel string.
func ParsePriceBucket(raw string) (PriceBucket, error) {
	b := PriceBucket(raw)
	switch b {
	case BucketUpTo50, Bucket50To100, Bucket100To500, Bucket500To1000,
		Bucket1000To2000, Bucket2000To5000, BucketAbove5000:
		return b, nil
	}
	return "", NewInvalidInput("unknown price bucket %q", raw)
}

// Contains reports whether the price falls inside the bucket's interval.
func (b PriceBucket) Contains(price float64) bool {
	switch b {
	case BucketUpTo50:
		return price >= 0 && price <= 50
	case Bucket50To100:
		return price > 50 && price <= 100
	case Bucket100To500:
		return price > 100 && price <= 500
	case Bucket500To1000:
		return price > 500 && price <= 1000
	case Bucket1000To2000:
		return price > 1000 && price <= 2000
	case Bucket2000To5000:
		return price > 2000 && price <= 5000
	case BucketAbove5000:
		return price > 5000
	}
	return false
}

// Criteria is the user-selected filter tuple. An absent criterion is a nil
// pointer, not a magic "all" string; Search matches everything when empty.
type Criteria struct {
	Search   string
	Category *Category
	Bucket   *PriceBucket
}

// Matches reports whether a single listing satisfies the logical AND of all
// active predicates. The search predicate is a case-insensitive substring
// match against the listing's title or location; description is not a
// filter key, so a missing description never affects the result.
func (c Criteria) Matches(l *Listing) bool {
	if l == nil {
		return false
	}
	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(l.Title), needle) &&
			!strings.Contains(strings.ToLower(l.Location), needle) {
			return false
		}
	}
	if c.Category != nil && l.Category != *c.Category {
		return false
	}
	if c.Bucket != nil && !c.Bucket.Contains(l.Price) {
		return false
	}
	return true
}

// Filter returns the ordered subsequence of listings satisfying the
// criteria. It is pure and total: no I/O, no error conditions, and the
// result preserves the relative order of the input (the caller fetches in
// descending creation time; this function never re-sorts). Re-applying the
// same criteria to the same input yields the same output.
func Filter(listings []*Listing, c Criteria) []*Listing {
	out := make([]*Listing, 0, len(listings))
	for _, l := range listings {
		if c.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}
