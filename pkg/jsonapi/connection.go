package jsonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// TokenSource hands out bearer tokens for each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Connection struct {
	Host        string
	Token       string
	TokenSource TokenSource
	Client      http.Client
	Headers     map[string]string

	// Used for testing
	RequestMethod func(method, path string,
		payload []byte, contentType string) ([]byte, error)
}

func (c *Connection) request(
	ctx context.Context,
	method,
	path string,
	payload []byte,
	contentType string,
) ([]byte, error) {
	if c.RequestMethod != nil {
		return c.RequestMethod(method, path, payload, contentType)
	}

	if strings.HasPrefix(path, "/") {
		path = c.Host + path
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	requestObj, err := http.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	if contentType == "" {
		contentType = "application/json"
	}
	if payload != nil {
		requestObj.Header.Add("Content-Type", contentType)
	}
	requestObj.Header.Add("Accept", "application/json")

	token := c.Token
	if c.TokenSource != nil {
		token, err = c.TokenSource.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not generate API token: %w", err)
		}
	}
	if token != "" {
		requestObj.Header.Add("Authorization", "Bearer "+token)
	}
	for header, value := range c.Headers {
		requestObj.Header.Add(header, value)
	}
	response, err := c.Client.Do(requestObj)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	errorResponse := parseErrorResponse(response.StatusCode, responseBody)
	if errorResponse != nil {
		return nil, errorResponse
	}

	return responseBody, nil
}

/*
Get
Returns a Resource instance from the server based on its 'type' and 'id'
*/
func (c *Connection) Get(
	ctx context.Context, Type string, id Identifiable,
) (Resource, error) {
	return c.GetFromPath(ctx, fmt.Sprintf("/%s/%s", Type, id.Id()))
}

/*
GetFromPath
Returns the single resource found at 'path'. 'path' may be a full URL, for
example a relationship's 'related' link.
*/
func (c *Connection) GetFromPath(
	ctx context.Context, path string,
) (Resource, error) {
	body, err := c.request(ctx, "GET", path, nil, "")
	if err != nil {
		return Resource{}, err
	}
	return parseSingular(body)
}

/*
List
Returns the first page of a Collection from the server. Query is a URL encoded
set of GET variables that can be easily generated from the Query type and
Query.Encode method.
*/
func (c *Connection) List(
	ctx context.Context, Type, Query string,
) (Collection, error) {
	Url := fmt.Sprintf("/%s", Type)
	if Query != "" {
		Url = Url + "?" + Query
	}
	return c.ListFromPath(ctx, Url)
}

func (c *Connection) ListFromPath(
	ctx context.Context, Url string,
) (Collection, error) {
	result := Collection{API: c}
	body, err := c.request(ctx, "GET", Url, nil, "")
	if err != nil {
		return result, err
	}

	var response PayloadPluralRead
	err = json.Unmarshal(body, &response)
	if err != nil {
		return result, err
	}

	result.Previous = response.Links.Previous
	result.Next = response.Links.Next
	result.Total = response.Meta.Paging.Total
	result.Data = make([]Resource, 0, len(response.Data))

	for _, item := range response.Data {
		resource, err := payloadToResource(item)
		if err != nil {
			return result, err
		}
		result.Data = append(result.Data, resource)
	}

	return result, nil
}

/*
Paginate
Fetches 'Url' and keeps following the `links.next` field of every response
until a page without one is reached. Returns every item of every page in the
order they were served. If 'pageSize' is positive, it is sent as the 'limit'
GET variable of the first request; subsequent requests use the server's links
verbatim.
*/
func (c *Connection) Paginate(
	ctx context.Context, Url string, pageSize int,
) ([]Resource, error) {
	if pageSize > 0 {
		var err error
		Url, err = withQueryParam(Url, "limit", strconv.Itoa(pageSize))
		if err != nil {
			return nil, err
		}
	}

	page, err := c.ListFromPath(ctx, Url)
	if err != nil {
		return nil, err
	}
	result := make([]Resource, 0, len(page.Data))
	for {
		result = append(result, page.Data...)
		if page.Next == "" {
			break
		}
		page, err = page.GetNext(ctx)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

/*
Create
POSTs a new resource of type 'Type' and returns the resource the server
responded with.
*/
func (c *Connection) Create(
	ctx context.Context,
	Type string,
	attributes map[string]interface{},
	relationships map[string]interface{},
) (Resource, error) {
	payload, err := json.Marshal(CreatePayload(Type, attributes, relationships))
	if err != nil {
		return Resource{}, err
	}
	body, err := c.request(ctx, "POST", fmt.Sprintf("/%s", Type), payload, "")
	if err != nil {
		return Resource{}, err
	}
	return parseSingular(body)
}

/*
Update
PATCHes the given attributes of an existing resource. The original resource
is left untouched; the updated version is returned.
*/
func (c *Connection) Update(
	ctx context.Context,
	Type string,
	id Identifiable,
	attributes map[string]interface{},
) (Resource, error) {
	payload, err := json.Marshal(UpdatePayload(id, Type, attributes))
	if err != nil {
		return Resource{}, err
	}
	body, err := c.request(
		ctx, "PATCH", fmt.Sprintf("/%s/%s", Type, id.Id()), payload, "",
	)
	if err != nil {
		return Resource{}, err
	}
	return parseSingular(body)
}

/*
Delete a resource from the server. Response is empty on success
*/
func (c *Connection) Delete(
	ctx context.Context, Type string, id Identifiable,
) error {
	_, err := c.request(
		ctx, "DELETE", fmt.Sprintf("/%s/%s", Type, id.Id()), nil, "",
	)
	return err
}

func parseSingular(body []byte) (Resource, error) {
	var response PayloadSingular
	err := json.Unmarshal(body, &response)
	if err != nil {
		return Resource{}, err
	}
	return payloadToResource(response.Data)
}

func withQueryParam(rawUrl, key, value string) (string, error) {
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	query.Set(key, value)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
