package jsonapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Ordering is a sort key plus direction.
type Ordering struct {
	Field      string
	Descending bool
}

// Param serializes the ordering the way the `sort` GET variable expects it:
// `field` or `-field`.
func (o Ordering) Param() string {
	if o.Descending {
		return "-" + o.Field
	}
	return o.Field
}

// Reversed returns the same ordering with the given direction.
func (o Ordering) Reversed(descending bool) Ordering {
	return Ordering{Field: o.Field, Descending: descending}
}

type Query struct {
	Filters  map[string]string
	Sort     Ordering
	Limit    int
	Includes []string
	Extras   map[string]string
}

/*
Encode
Converts a Query object to a string that's ready to be used as GET variables
for {json:api} requests.
*/
func (q Query) Encode() string {
	result := make(url.Values)
	if q.Filters != nil {
		for key, value := range q.Filters {
			finalKey := "filter"
			for _, part := range strings.Split(key, "__") {
				finalKey = finalKey + fmt.Sprintf("[%s]", part)
			}
			result.Add(finalKey, value)
		}
	}
	if q.Sort.Field != "" {
		result.Add("sort", q.Sort.Param())
	}
	if q.Limit > 0 {
		result.Add("limit", strconv.Itoa(q.Limit))
	}
	if q.Includes != nil {
		result.Add("include", strings.Join(q.Includes, ","))
	}
	if q.Extras != nil {
		for key, value := range q.Extras {
			result.Add(key, value)
		}
	}
	return result.Encode()
}
