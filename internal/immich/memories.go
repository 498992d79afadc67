package immich

import (
	"context"
	"net/http"
	"time"
)

// GetMemories fetches the "on this day" memories for the given date.
func (c *Client) GetMemories(ctx context.Context, day time.Time) ([]Memory, error) {
	var out []Memory
	path := "/memories?for=" + day.UTC().Format(time.RFC3339)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MemoryAssets flattens today's memories into one asset list.
func (c *Client) MemoryAssets(ctx context.Context, day time.Time) ([]Asset, error) {
	memories, err := c.GetMemories(ctx, day)
	if err != nil {
		return nil, err
	}
	var assets []Asset
	for _, m := range memories {
		assets = append(assets, m.Assets...)
	}
	return assets, nil
}
