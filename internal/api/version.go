package api

import (
	"context"
	"net/http"

	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
)

// VersionInfo fetches the backend's agent-version requirements.
func (c *Client) VersionInfo(ctx context.Context) (*models.VersionInfo, error) {
	var info models.VersionInfo
	if err := c.do(ctx, http.MethodGet, "/version", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
