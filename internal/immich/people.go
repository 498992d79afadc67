package immich

import (
	"context"
	"net/http"
	"net/url"
)

// GetPerson fetches the named face for a person id. Cached, since person
// records only change when someone re-tags faces.
func (c *Client) GetPerson(ctx context.Context, id string) (*Person, error) {
	key := "person:" + id
	if c.cache != nil {
		if p, ok := cacheGet[*Person](c.cache, key); ok {
			return p, nil
		}
	}
	var out Person
	if err := c.do(ctx, http.MethodGet, "/people/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.add(key, &out)
	}
	return &out, nil
}
