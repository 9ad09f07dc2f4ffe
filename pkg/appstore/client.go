package appstore

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/signkit/cli/pkg/jsonapi"
)

const (
	DefaultHost     = "https://api.appstoreconnect.apple.com/v1"
	DefaultPageSize = 100
)

// Client gives access to the resource managers of the App Store Connect API.
type Client struct {
	API *jsonapi.Connection
	// PageSize is sent as `limit` when listing; 0 lets the server decide.
	PageSize int
}

// NewClient connects to host (DefaultHost if empty). A zero timeout means
// requests never time out.
func NewClient(
	host string, tokens jsonapi.TokenSource, timeout time.Duration,
) *Client {
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		API: &jsonapi.Connection{
			Host:        strings.TrimRight(host, "/"),
			TokenSource: tokens,
			Client:      http.Client{Timeout: timeout},
		},
		PageSize: DefaultPageSize,
	}
}

func (c *Client) BundleIds() BundleIds { return BundleIds{client: c} }

func (c *Client) BundleIdCapabilities() BundleIdCapabilities {
	return BundleIdCapabilities{client: c}
}

func (c *Client) Profiles() Profiles { return Profiles{client: c} }

func (c *Client) Certificates() Certificates { return Certificates{client: c} }

func (c *Client) Devices() Devices { return Devices{client: c} }

// list fetches every page of path filtered and sorted by query.
func (c *Client) list(
	ctx context.Context, path string, query jsonapi.Query,
) ([]jsonapi.Resource, error) {
	if encoded := query.Encode(); encoded != "" {
		path = path + "?" + encoded
	}
	return c.API.Paginate(ctx, path, c.PageSize)
}

type linked interface {
	RelationshipLink(key string, self bool) (string, error)
}

/*
relationshipURL finds the URL of a relationship of 'ref'. Fetched resources
carry the link themselves; for a bare ResourceId it is built by convention:

	/<type>/<id>/relationships/<relationship>    self
	/<type>/<id>/<relationship>                  related
*/
func relationshipURL(
	ref jsonapi.Identifiable, resourceType, relationship string, self bool,
) string {
	if resource, ok := ref.(linked); ok {
		link, err := resource.RelationshipLink(relationship, self)
		if err == nil && link != "" {
			return link
		}
	}
	if self {
		return fmt.Sprintf(
			"/%s/%s/relationships/%s", resourceType, ref.Id(), relationship,
		)
	}
	return fmt.Sprintf("/%s/%s/%s", resourceType, ref.Id(), relationship)
}

func convertAll[T any](
	resources []jsonapi.Resource, convert func(jsonapi.Resource) (T, error),
) ([]T, error) {
	result := make([]T, 0, len(resources))
	for _, resource := range resources {
		item, err := convert(resource)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func identifiers(resources []jsonapi.Resource) []jsonapi.ResourceIdentifier {
	result := make([]jsonapi.ResourceIdentifier, 0, len(resources))
	for _, resource := range resources {
		result = append(result, jsonapi.ResourceIdentifier{
			Type: resource.Type(),
			Id:   string(resource.Id()),
		})
	}
	return result
}
