package jsonapi

import (
	"net/url"
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	testCases := []struct {
		query    Query
		expected string
	}{
		{Query{Filters: map[string]string{"platform": "IOS"}},
			"filter[platform]=IOS"},
		{Query{Filters: map[string]string{"bundleId__identifier": "io.app"}},
			"filter[bundleId][identifier]=io.app"},
		{Query{Sort: Ordering{Field: "name"}}, "sort=name"},
		{Query{Sort: Ordering{Field: "name", Descending: true}}, "sort=-name"},
		{Query{Limit: 200}, "limit=200"},
		{Query{Includes: []string{"aaa", "bbb"}},
			"include=aaa,bbb"},
		{Query{Extras: map[string]string{"fields[devices]": "udid"}},
			"fields[devices]=udid"},
	}

	for _, testCase := range testCases {
		query := testCase.query
		expected := testCase.expected
		expected = url.QueryEscape(expected)
		expected = strings.ReplaceAll(expected, "%3D", "=")
		expected = strings.ReplaceAll(expected, "%26", "&")

		if query.Encode() != expected {
			t.Errorf("Query %v generated querystring '%s', expected '%s'",
				query, query.Encode(), expected)
		}
	}
}

func TestOrderingParam(t *testing.T) {
	ordering := Ordering{Field: "seedId"}
	if ordering.Param() != "seedId" {
		t.Errorf("Got '%s'", ordering.Param())
	}
	if ordering.Reversed(true).Param() != "-seedId" {
		t.Errorf("Got '%s'", ordering.Reversed(true).Param())
	}
	if ordering.Reversed(true).Reversed(false).Param() != "seedId" {
		t.Error("Reversing back should drop the minus sign")
	}
}
