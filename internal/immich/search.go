package immich

import (
	"context"
	"net/http"
)

// SearchRandom fetches up to n assets matching the filter, in
// server-randomized order. The server may return fewer than n when the
// matching set is small.
func (c *Client) SearchRandom(ctx context.Context, filter SearchFilter, n int) ([]Asset, error) {
	if n <= 0 {
		return nil, nil
	}
	req := searchRandomRequest{SearchFilter: filter, Size: n}
	var out []Asset
	if err := c.do(ctx, http.MethodPost, "/search/random", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchStatistics returns the total number of assets matching the filter.
func (c *Client) SearchStatistics(ctx context.Context, filter SearchFilter) (int64, error) {
	var out searchStatisticsResponse
	if err := c.do(ctx, http.MethodPost, "/search/statistics", filter, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}
