package jsonapi

import (
	"encoding/json"
	"errors"
	"reflect"
)

type Links struct {
	Self    string `json:"self,omitempty"`
	Related string `json:"related,omitempty"`
}

// Used to parse JSON

type PayloadSingular struct {
	Data     PayloadResource   `json:"data"`
	Included []PayloadResource `json:"included,omitempty"`
}

type PayloadPluralRead struct {
	Data     []PayloadResource `json:"data"`
	Links    PaginationLinks   `json:"links,omitempty"`
	Meta     PayloadMeta       `json:"meta,omitempty"`
	Included []PayloadResource `json:"included,omitempty"`
}

type PaginationLinks struct {
	Self     string `json:"self,omitempty"`
	First    string `json:"first,omitempty"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

type PayloadMeta struct {
	Paging struct {
		Total int `json:"total,omitempty"`
		Limit int `json:"limit,omitempty"`
	} `json:"paging,omitempty"`
}

type PayloadResource struct {
	Type          string                         `json:"type"`
	Id            string                         `json:"id,omitempty"`
	Attributes    map[string]interface{}         `json:"attributes,omitempty"`
	Relationships map[string]PayloadRelationship `json:"relationships,omitempty"`
	Links         Links                          `json:"links,omitempty"`
}

// Relationship 'data' is either an identifier, a list of identifiers, null or
// absent, so it is kept raw until the resource is assembled.
type PayloadRelationship struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Links Links           `json:"links,omitempty"`
}

type ResourceIdentifier struct {
	Type string `json:"type"`
	Id   string `json:"id"`
}

// Used to write JSON

type payloadWrite struct {
	Data payloadWriteData `json:"data"`
}

type payloadWriteData struct {
	Type          string                 `json:"type"`
	Id            string                 `json:"id,omitempty"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
	Relationships map[string]interface{} `json:"relationships,omitempty"`
}

/*
CreatePayload
Body for POST requests:

    {"data": {"type": ..., "attributes": {...}, "relationships": {...}}}
*/
func CreatePayload(
	Type string,
	attributes map[string]interface{},
	relationships map[string]interface{},
) interface{} {
	return payloadWrite{Data: payloadWriteData{
		Type:          Type,
		Attributes:    attributes,
		Relationships: relationships,
	}}
}

/*
UpdatePayload
Body for PATCH requests:

    {"data": {"id": ..., "type": ..., "attributes": {...}}}
*/
func UpdatePayload(
	id Identifiable, Type string, attributes map[string]interface{},
) interface{} {
	return payloadWrite{Data: payloadWriteData{
		Type:       Type,
		Id:         string(id.Id()),
		Attributes: attributes,
	}}
}

// RelationshipData is the `{"type": ..., "id": ...}` linkage used inside the
// relationships of a create payload.
func RelationshipData(ref Identifiable, Type string) ResourceIdentifier {
	return ResourceIdentifier{Type: Type, Id: string(ref.Id())}
}

// ToOne wraps a single linkage as `{"data": {...}}`.
func ToOne(ref Identifiable, Type string) map[string]interface{} {
	return map[string]interface{}{"data": RelationshipData(ref, Type)}
}

// ToMany wraps linkages as `{"data": [...]}`. An empty list is kept as `[]`.
func ToMany[T Identifiable](refs []T, Type string) map[string]interface{} {
	data := make([]ResourceIdentifier, 0, len(refs))
	for _, ref := range refs {
		data = append(data, RelationshipData(ref, Type))
	}
	return map[string]interface{}{"data": data}
}

func payloadToResource(in PayloadResource) (Resource, error) {
	if in.Type == "" {
		return Resource{}, errors.New("resource object has no 'type'")
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return Resource{}, err
	}
	out := Resource{
		id:            ResourceId(in.Id),
		resourceType:  in.Type,
		attributes:    in.Attributes,
		relationships: make(map[string]Relationship, len(in.Relationships)),
		links:         in.Links,
		raw:           raw,
	}

	for key, value := range in.Relationships {
		relationship := Relationship{Links: value.Links}
		data := value.Data
		if len(data) == 0 || string(data) == "null" {
			relationship.Kind = NULL
		} else if data[0] == '[' {
			relationship.Kind = PLURAL
			err := json.Unmarshal(data, &relationship.Data)
			if err != nil {
				return out, err
			}
		} else {
			relationship.Kind = SINGULAR
			var identifier ResourceIdentifier
			err := json.Unmarshal(data, &identifier)
			if err != nil {
				return out, err
			}
			relationship.Data = []ResourceIdentifier{identifier}
		}
		// A relationship with only links is still traversable; its kind is
		// unknown until fetched
		if relationship.Kind == NULL && relationship.Links != (Links{}) {
			relationship.Kind = LINKED
		}
		out.relationships[key] = relationship
	}

	return out, nil
}

func jsonEqual(leftBytes, rightBytes []byte) (bool, error) {
	var left interface{}
	err := json.Unmarshal(leftBytes, &left)
	if err != nil {
		return false, err
	}

	var right interface{}
	err = json.Unmarshal(rightBytes, &right)
	if err != nil {
		return false, err
	}

	return reflect.DeepEqual(left, right), nil
}
