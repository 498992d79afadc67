package immich

import (
	"context"
	"net/http"
	"net/url"
)

// ListAlbums returns the album summaries visible to the account, without
// their asset lists.
func (c *Client) ListAlbums(ctx context.Context) ([]Album, error) {
	var out []Album
	if err := c.do(ctx, http.MethodGet, "/albums", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAlbum fetches one album including its asset list. Responses are served
// from the in-memory cache when present, since album contents are the most
// expensive aggregate the frame re-reads.
func (c *Client) GetAlbum(ctx context.Context, id string) (*Album, error) {
	key := "album:" + id
	if c.cache != nil {
		if album, ok := cacheGet[*Album](c.cache, key); ok {
			return album, nil
		}
	}
	var out Album
	if err := c.do(ctx, http.MethodGet, "/albums/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.add(key, &out)
	}
	return &out, nil
}

// GetAlbumCount returns the asset count of one album without transferring
// its contents.
func (c *Client) GetAlbumCount(ctx context.Context, id string) (int64, error) {
	var out Album
	q := "/albums/" + url.PathEscape(id) + "?withoutAssets=true"
	if err := c.do(ctx, http.MethodGet, q, nil, &out); err != nil {
		return 0, err
	}
	return out.AssetCount, nil
}
