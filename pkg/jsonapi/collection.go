package jsonapi

import (
	"context"
	"errors"
)

type Collection struct {
	API      *Connection
	Data     []Resource
	Next     string
	Previous string
	Total    int
}

/*
GetNext
Return the next page of the paginated collection as pointed to by the
`.links.next` field in the {json:api} response
*/
func (c *Collection) GetNext(ctx context.Context) (Collection, error) {
	if c.Next == "" {
		return Collection{}, errors.New("no next page")
	}
	return c.API.ListFromPath(ctx, c.Next)
}

/*
GetPrevious
Return the previous page of the paginated collection as pointed to by the
`.links.previous` field in the {json:api} response
*/
func (c *Collection) GetPrevious(ctx context.Context) (Collection, error) {
	if c.Previous == "" {
		return Collection{}, errors.New("no previous page")
	}
	return c.API.ListFromPath(ctx, c.Previous)
}
