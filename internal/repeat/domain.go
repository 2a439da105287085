package repeat

import "strings"

// Domain is one protein domain hit reported by TEsorter together with the
// clade it was assigned to. A repeat may carry the same domain name more
// than once, so domains are kept as an ordered list of pairs.
type Domain struct {
	Name  string
	Clade string
}

// NoneDomain marks a repeat without any domain hit.
var NoneDomain = Domain{Name: None, Clade: None}

// NoneDomains returns a fresh placeholder list.
func NoneDomains() []Domain { return []Domain{NoneDomain} }

func (d Domain) String() string { return d.Name + "|" + d.Clade }

// ParseDomain reads "domain|clade" or a bare "domain" (clade "none").
// Only the first two "|" fields are used; an empty clade stays empty.
func ParseDomain(tok string) Domain {
	parts := strings.Split(tok, "|")
	if len(parts) == 1 {
		return Domain{Name: parts[0], Clade: None}
	}
	return Domain{Name: parts[0], Clade: parts[1]}
}

// ParseDomains splits a TEsorter domains column on whitespace. An empty
// column yields the placeholder list.
func ParseDomains(field string) []Domain {
	toks := strings.Fields(field)
	if len(toks) == 0 {
		return NoneDomains()
	}
	out := make([]Domain, 0, len(toks))
	for _, t := range toks {
		out = append(out, ParseDomain(t))
	}
	return out
}

// FormatDomains joins a domain list back into the TEsorter token form. The
// result is stable and is used as the grouping key for the "domains" depth.
func FormatDomains(ds []Domain) string {
	if len(ds) == 0 {
		return NoneDomain.String()
	}
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

// IsNoneDomains reports whether ds is the placeholder list.
func IsNoneDomains(ds []Domain) bool {
	return len(ds) == 0 || (len(ds) == 1 && ds[0] == NoneDomain)
}
