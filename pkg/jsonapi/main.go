/*
Package jsonapi
Interface for interacting with {json:api} style REST APIs such as App Store
Connect.

Usage:

    import "github.com/signkit/cli/pkg/jsonapi"

    api := jsonapi.Connection{
        Host:        "https://api.appstoreconnect.apple.com/v1",
        TokenSource: tokens,
    }

    // Lets get every bundle ID, following `links.next` until exhausted
    query := jsonapi.Query{
        Sort:    jsonapi.Ordering{Field: "name", Descending: true},
        Filters: map[string]string{"platform": "IOS"},
    }.Encode()
    bundleIds, err := api.Paginate(ctx, "/bundleIds?"+query, 100)
    for _, bundleId := range bundleIds {
        fmt.Println(bundleId.Attribute("identifier"))
    }

    // Lets get a single thing
    profile, err := api.Get(ctx, "profiles", "ABC123")

    // Relationships carry links, never live objects
    relationship, _ := profile.Relationship("bundleId")
    bundleId, err := api.GetFromPath(ctx, relationship.Links.Related)

    // Lets create something new; the server's response becomes a new Resource
    device, err := api.Create(ctx, "devices", map[string]interface{}{
        "name": "iPhone", "udid": "...", "platform": "IOS",
    }, nil)

Resources are values: they are built from exactly one JSON object and none of
their methods modify them.
*/
package jsonapi
