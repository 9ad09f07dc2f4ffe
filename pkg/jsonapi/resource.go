package jsonapi

import (
	"encoding/json"
	"fmt"
)

// ResourceId is the opaque identifier of a resource. It can be used wherever
// only the identity of a resource is needed.
type ResourceId string

func (id ResourceId) Id() ResourceId { return id }

func (id ResourceId) String() string { return string(id) }

// Identifiable is satisfied by ResourceId and by every Resource.
type Identifiable interface {
	Id() ResourceId
}

const (
	NULL     = iota
	SINGULAR = iota
	PLURAL   = iota
	LINKED   = iota
)

// Relationship references other resources by link URL and/or identifier,
// never by a live object.
type Relationship struct {
	Kind  int
	Data  []ResourceIdentifier
	Links Links
}

type Resource struct {
	id            ResourceId
	resourceType  string
	attributes    map[string]interface{}
	relationships map[string]Relationship
	links         Links
	raw           json.RawMessage
}

/*
NewResource
Build a Resource from a single JSON:API resource object (the value of a
response's `data` field, not the whole document).
*/
func NewResource(data []byte) (Resource, error) {
	var payload PayloadResource
	err := json.Unmarshal(data, &payload)
	if err != nil {
		return Resource{}, err
	}
	return payloadToResource(payload)
}

func (r Resource) Id() ResourceId { return r.id }

func (r Resource) Type() string { return r.resourceType }

func (r Resource) Links() Links { return r.links }

// Attribute returns a single attribute, or nil if it is absent.
func (r Resource) Attribute(key string) interface{} {
	return r.attributes[key]
}

// Attributes returns a shallow copy of the resource's attributes.
func (r Resource) Attributes() map[string]interface{} {
	result := make(map[string]interface{}, len(r.attributes))
	for key, value := range r.attributes {
		result[key] = value
	}
	return result
}

func (r Resource) Relationship(key string) (Relationship, bool) {
	relationship, exists := r.relationships[key]
	if !exists {
		return Relationship{}, false
	}
	relationship.Data = append([]ResourceIdentifier(nil), relationship.Data...)
	return relationship, true
}

/*
RelationshipLink returns the 'self' (when 'self' is true) or 'related' link of
a relationship, failing if the relationship or the link is missing.
*/
func (r Resource) RelationshipLink(key string, self bool) (string, error) {
	relationship, exists := r.relationships[key]
	if !exists {
		return "", fmt.Errorf("%s %s has no relationship '%s'",
			r.resourceType, r.id, key)
	}
	link := relationship.Links.Related
	if self {
		link = relationship.Links.Self
	}
	if link == "" {
		return "", fmt.Errorf("relationship '%s' of %s %s has no links",
			key, r.resourceType, r.id)
	}
	return link, nil
}

// Raw returns the JSON object the resource was built from.
func (r Resource) Raw() json.RawMessage {
	return append(json.RawMessage(nil), r.raw...)
}

/*
MapAttributes Map a resource's attributes to a struct. Usage:

    type BundleIdAttributes struct {
        Name string `json:"name"`
        ...
    }

    func main() {
        api := jsonapi.Connection{...}
        bundleId, _ := api.Get(ctx, "bundleIds", jsonapi.ResourceId("XXX"))
        var attributes BundleIdAttributes
        bundleId.MapAttributes(&attributes)

        fmt.Println(attributes.Name)
    }

*/
func (r Resource) MapAttributes(result interface{}) error {
	data, err := json.Marshal(r.attributes)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

// MarshalJSON renders the resource back as the object it was built from.
func (r Resource) MarshalJSON() ([]byte, error) {
	if r.raw == nil {
		return []byte("null"), nil
	}
	return r.raw, nil
}
