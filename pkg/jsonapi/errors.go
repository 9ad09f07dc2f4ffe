package jsonapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

/*
Error type for {json:api} errors.

You can inspect the contents of the error response with errors.As.
Example:

	    _, err := api.Create(ctx, "bundleIds", attributes, nil)
	    var e *jsonapi.Error
	    if errors.As(err, &e) {
			for _, errorItem := range e.Errors {
				if errorItem.Status == "409" {
					fmt.Println("Something already exists")
				}
			}
	    }
*/
type Error struct {
	StatusCode int
	Errors     []ErrorItem `json:"errors"`
}

type ErrorItem struct {
	Id     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Code   string `json:"code,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
	Source struct {
		Pointer   string `json:"pointer,omitempty"`
		Parameter string `json:"parameter,omitempty"`
	} `json:"source,omitempty"`
}

func (e *Error) Error() string {
	// 409, ENTITY_ERROR: An attribute value is invalid.
	result := make([]string, 0, len(e.Errors)+1)
	result = append(result, fmt.Sprint(e.StatusCode))
	for _, errorItem := range e.Errors {
		detail := errorItem.Detail
		if detail == "" {
			detail = errorItem.Title
		}
		result = append(result,
			fmt.Sprintf("%s: %s", errorItem.Code, detail))
	}
	return strings.Join(result, ", ")
}

func parseErrorResponse(statusCode int, body []byte) *Error {
	if statusCode < 400 {
		return nil
	}
	errorResponse := Error{StatusCode: statusCode}

	// Intentionally ignore parse errors
	_ = json.Unmarshal(body, &errorResponse)

	return &errorResponse
}
