package filter

import "repeattools/internal/repeat"

// PercentCriteria is a resolved percentage filter.
type PercentCriteria struct {
	Field     PercentField
	Threshold float64
	Mode      Mode
}

// Options enables filters; nil / zero members are skipped.
type Options struct {
	MinLength          int
	Chromosomes        Set // nil disables the chromosome filter
	ExcludeChromosomes bool
	Domain             *DomainCriteria
	Percentage         *PercentCriteria
}

// Apply runs the enabled filters in the fixed order
// length -> chromosome -> domain -> percentage.
func Apply(recs []repeat.Record, o Options) ([]repeat.Record, error) {
	if o.MinLength > 0 {
		recs = ByLength(recs, o.MinLength)
	}
	if o.Chromosomes != nil {
		recs = ByChromosomes(recs, o.Chromosomes, o.ExcludeChromosomes)
	}
	if o.Domain != nil {
		recs = ByDomain(recs, *o.Domain)
	}
	if o.Percentage != nil {
		var err error
		recs, err = ByPercentage(recs, o.Percentage.Field, o.Percentage.Threshold, o.Percentage.Mode)
		if err != nil {
			return nil, err
		}
	}
	return recs, nil
}
