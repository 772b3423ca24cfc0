package forgeapi

import (
	"context"
	"fmt"

	"skillforge/internal/types"
)

type repoMetadataResponse struct {
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	Description     string `json:"description"`
	License         *struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}

// FetchMetadata retrieves stars, forks, license and description for a
// repository through the failover client.
func FetchMetadata(ctx context.Context, c *Client, owner, repo string) (types.RepoMetadata, error) {
	var resp repoMetadataResponse
	if err := c.GetJSON(ctx, fmt.Sprintf("repos/%s/%s", owner, repo), &resp); err != nil {
		return types.RepoMetadata{}, err
	}
	meta := types.RepoMetadata{
		Stars:       resp.StargazersCount,
		Forks:       resp.ForksCount,
		Description: resp.Description,
	}
	if resp.License != nil {
		meta.LicenseID = resp.License.SPDXID
	}
	if meta.LicenseID == "" {
		meta.LicenseID = "unknown"
	}
	return meta, nil
}

// CheckSafety runs the minimum-popularity gate over a repository. It fails
// closed: fetch errors yield an unsafe report with a diagnostic reason, never
// an error. The description passes through unsanitized for template reuse.
func CheckSafety(ctx context.Context, c *Client, owner, repo string, minStars int) (types.SafetyReport, types.RepoMetadata) {
	meta, err := FetchMetadata(ctx, c, owner, repo)
	if err != nil {
		return types.SafetyReport{
			Safe:   false,
			Reason: fmt.Sprintf("safety check failed: %v", err),
		}, types.RepoMetadata{}
	}

	stats := fmt.Sprintf("Stars: %d; Forks: %d; License: %s", meta.Stars, meta.Forks, meta.LicenseID)
	if meta.Stars < minStars {
		return types.SafetyReport{
			Safe:   false,
			Reason: fmt.Sprintf("stars (%d) below the safety threshold (%d)", meta.Stars, minStars),
			Stats:  stats,
		}, meta
	}
	return types.SafetyReport{Safe: true, Stats: stats}, meta
}
