package jsonapi

import (
	"encoding/json"
	"testing"
)

func TestJsonEqual(t *testing.T) {
	left := `{
        "aaa": "bbb",
        "ccc": "ddd"
    }`
	// Change formatting and order
	right := `{"ccc": "ddd", "aaa": "bbb"}`

	equal, err := jsonEqual([]byte(left), []byte(right))
	if err != nil {
		t.Error(err)
	}
	if !equal {
		t.Error("JSON appears not equal")
	}
}

func TestCreatePayload(t *testing.T) {
	payload := CreatePayload(
		"profiles",
		map[string]interface{}{"name": "Dev", "profileType": "IOS_APP_DEVELOPMENT"},
		map[string]interface{}{
			"bundleId":     ToOne(ResourceId("B1"), "bundleIds"),
			"certificates": ToMany([]ResourceId{"C1", "C2"}, "certificates"),
			"devices":      ToMany([]ResourceId{}, "devices"),
		},
	)
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}

	expected := `{"data": {
		"type": "profiles",
		"attributes": {"name": "Dev", "profileType": "IOS_APP_DEVELOPMENT"},
		"relationships": {
			"bundleId": {"data": {"type": "bundleIds", "id": "B1"}},
			"certificates": {"data": [{"type": "certificates", "id": "C1"},
			                          {"type": "certificates", "id": "C2"}]},
			"devices": {"data": []}
		}
	}}`
	equal, err := jsonEqual(body, []byte(expected))
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Errorf("Got payload %s", body)
	}
}

func TestUpdatePayload(t *testing.T) {
	body, err := json.Marshal(UpdatePayload(
		ResourceId("B1"), "bundleIds", map[string]interface{}{"name": "New"},
	))
	if err != nil {
		t.Fatal(err)
	}
	equal, err := jsonEqual(body, []byte(`{"data": {
		"id": "B1", "type": "bundleIds", "attributes": {"name": "New"}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Errorf("Got payload %s", body)
	}
}

func TestRelationshipDataFromResource(t *testing.T) {
	resource, err := NewResource([]byte(`{"type": "certificates", "id": "C9"}`))
	if err != nil {
		t.Fatal(err)
	}
	data := RelationshipData(resource, "certificates")
	if data != (ResourceIdentifier{Type: "certificates", Id: "C9"}) {
		t.Errorf("Got %+v", data)
	}
}
