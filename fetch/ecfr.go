package fetch

import (
	"context"
	"encoding/json"
	"fmt"
)

// ecfrTitles mirrors the relevant slice of the eCFR versioner
// /api/versioner/v1/titles.json response.
type ecfrTitles struct {
	Titles []struct {
		Number          int    `json:"number"`
		LatestIssueDate string `json:"latest_issue_date"`
		UpToDateAsOf    string `json:"up_to_date_as_of"`
	} `json:"titles"`
}

// DiscoverECFRVersion asks the eCFR versioner for the latest issue
// date of a title. That date is both the snapshot version and the key
// into the full-XML endpoint.
func (c *Client) DiscoverECFRVersion(ctx context.Context, title int) (string, error) {
	body, err := c.Get(ctx, c.config.ECFRBase+"/api/versioner/v1/titles.json")
	if err != nil {
		return "", fmt.Errorf("ecfr versioner: %w", err)
	}

	var titles ecfrTitles
	if err := json.Unmarshal(body, &titles); err != nil {
		return "", fmt.Errorf("ecfr versioner response: %w", err)
	}
	for _, t := range titles.Titles {
		if t.Number == title {
			if t.LatestIssueDate == "" {
				return "", fmt.Errorf("ecfr title %d has no issue date", title)
			}
			return t.LatestIssueDate, nil
		}
	}
	return "", fmt.Errorf("ecfr title %d not in versioner response", title)
}

// ECFRXMLURL returns the full-XML snapshot URL for a title at a
// versioner issue date (YYYY-MM-DD).
func (c *Client) ECFRXMLURL(date string, title int) string {
	return fmt.Sprintf("%s/api/versioner/v1/full/%s/title-%d.xml", c.config.ECFRBase, date, title)
}

// FetchECFRXML downloads the full XML of a title snapshot.
func (c *Client) FetchECFRXML(ctx context.Context, date string, title int) ([]byte, error) {
	data, err := c.Get(ctx, c.ECFRXMLURL(date, title))
	if err != nil {
		return nil, fmt.Errorf("ecfr title %d @ %s: %w", title, date, err)
	}
	return data, nil
}
