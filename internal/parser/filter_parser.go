package parser

import (
	"fmt"
	"strings"
)

// ParsedFilters is a filter expression split into the parts the list
// endpoints understand.
type ParsedFilters struct {
	Search  string
	Filters map[string]string
	SortBy  string
	SortOrder string
}

// ParseFilters parses command-line filter expressions of the form
//
//	status:started customer:Acme sort:date/desc free text
//
// Bare words join into the free-text search. key:value pairs must name one
// of the allowed filter keys; sort:field/order sets the sort. Values with
// spaces can be quoted: customer:"Acme Haulage".
func ParseFilters(args []string, allowedKeys []string) (ParsedFilters, error) {
	out := ParsedFilters{Filters: make(map[string]string)}
	allowed := make(map[string]bool, len(allowedKeys))
	for _, k := range allowedKeys {
		allowed[k] = true
	}

	var searchWords []string
	for _, arg := range args {
		key, value, isPair := strings.Cut(arg, ":")
		if !isPair {
			searchWords = append(searchWords, arg)
			continue
		}
		value = strings.Trim(value, `"`)

		if key == "sort" {
			by, order, hasOrder := strings.Cut(value, "/")
			if by == "" {
				return out, fmt.Errorf("sort needs a field, e.g. sort:date/desc")
			}
			if !hasOrder {
				order = "asc"
			}
			if order != "asc" && order != "desc" {
				return out, fmt.Errorf("sort order must be asc or desc, got %q", order)
			}
			out.SortBy = by
			out.SortOrder = order
			continue
		}

		if !allowed[key] {
			return out, fmt.Errorf("unknown filter %q (allowed: %s)", key, strings.Join(allowedKeys, ", "))
		}
		out.Filters[key] = value
	}

	out.Search = strings.Join(searchWords, " ")
	return out, nil
}
