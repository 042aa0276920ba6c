// Package query builds declarative find descriptors (filters plus relation
// population) for the repositories. Builders never execute anything.
package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Descriptor is a find request in the CMS query format.
type Descriptor struct {
	Filters  Filters  `json:"filters,omitempty"`
	Populate Populate `json:"populate,omitempty"`
	Sort     []string `json:"sort,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

// Filters maps a field name to its conditions.
type Filters map[string]Condition

// Condition is the operator set applied to one field.
type Condition struct {
	Eq any `json:"$eq,omitempty"`
}

// Populate lists the relations and media to load with each entry.
// A nil Populate means the caller did not ask for anything.
type Populate []string

// Has reports whether name is populated.
func (p Populate) Has(name string) bool {
	for _, v := range p {
		if v == name || v == "*" {
			return true
		}
	}
	return false
}

const BannerImage = "bannerImage"

// PopulateBanner loads the banner image.
func PopulateBanner() Descriptor {
	return Descriptor{Populate: Populate{BannerImage}}
}

// BySlugWithBanner finds an entry by slug and loads its banner image.
func BySlugWithBanner(slug string) Descriptor {
	return Descriptor{
		Filters:  Filters{"slug": {Eq: slug}},
		Populate: Populate{BannerImage},
	}
}

// ResolvePopulate returns requested, or a copy of fallback when the caller
// left populate unset. An explicit empty list is kept as is.
func ResolvePopulate(requested, fallback Populate) Populate {
	if requested != nil {
		return requested
	}
	out := make(Populate, len(fallback))
	copy(out, fallback)
	return out
}

// ParseValues reads a descriptor from query-string parameters:
//
//	populate=a,b  populate[0]=a  filters[slug][$eq]=x  sort=name:asc  pagination[limit]=10
func ParseValues(values url.Values) (Descriptor, error) {
	var d Descriptor
	indexed := map[int]string{}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		switch {
		case key == "populate":
			for _, v := range vals {
				d.Populate = append(d.Populate, splitList(v)...)
			}
			if d.Populate == nil {
				d.Populate = Populate{}
			}
		case strings.HasPrefix(key, "populate["):
			i, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(key, "populate["), "]"))
			if err != nil {
				return Descriptor{}, fmt.Errorf("invalid populate key %q", key)
			}
			indexed[i] = vals[0]
		case strings.HasPrefix(key, "filters["):
			field, op, err := parseFilterKey(key)
			if err != nil {
				return Descriptor{}, err
			}
			if op != "$eq" {
				return Descriptor{}, fmt.Errorf("unsupported filter operator %q", op)
			}
			if d.Filters == nil {
				d.Filters = Filters{}
			}
			d.Filters[field] = Condition{Eq: vals[0]}
		case key == "sort":
			for _, v := range vals {
				d.Sort = append(d.Sort, splitList(v)...)
			}
		case key == "pagination[limit]" || key == "limit":
			n, err := strconv.Atoi(vals[0])
			if err != nil || n < 0 {
				return Descriptor{}, fmt.Errorf("invalid limit %q", vals[0])
			}
			d.Limit = n
		}
	}

	if len(indexed) > 0 {
		keys := make([]int, 0, len(indexed))
		for k := range indexed {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		for _, k := range keys {
			d.Populate = append(d.Populate, indexed[k])
		}
	}
	return d, nil
}

// parseFilterKey splits "filters[field][$op]" into field and operator.
func parseFilterKey(key string) (string, string, error) {
	rest := strings.TrimPrefix(key, "filters")
	parts := strings.Split(strings.Trim(rest, "[]"), "][")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid filter key %q", key)
	}
	return parts[0], parts[1], nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
