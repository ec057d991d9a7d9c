package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Release identifies one US Code release point.
type Release struct {
	Version string // public-law release id, e.g. "119-36"
	URL     string // absolute URL of the title XML ZIP
}

// uscReleaseRe finds the Title 26 XML release-point link on the
// uscode.house.gov download page. The href is relative to /download/
// on some revisions of the page and repeats the "download/" prefix on
// others.
var uscReleaseRe = regexp.MustCompile(`(?i)href=["']((?:download/)?releasepoints/[^"']*xml_usc26@(\d+-\d+)\.zip)["']`)

// DiscoverUSCRelease scrapes the USC download page for the current
// Title 26 XML release point.
func (c *Client) DiscoverUSCRelease(ctx context.Context) (Release, error) {
	page, err := c.Get(ctx, c.config.USCBase+"/download/download.shtml")
	if err != nil {
		return Release{}, fmt.Errorf("usc download page: %w", err)
	}

	m := uscReleaseRe.FindSubmatch(page)
	if m == nil {
		return Release{}, fmt.Errorf("no title 26 release point on download page")
	}

	href := string(m[1])
	if !strings.HasPrefix(href, "download/") {
		href = "download/" + href
	}
	return Release{
		Version: string(m[2]),
		URL:     c.config.USCBase + "/" + href,
	}, nil
}

// FetchUSCZip downloads the release-point ZIP.
func (c *Client) FetchUSCZip(ctx context.Context, rel Release) ([]byte, error) {
	data, err := c.Get(ctx, rel.URL)
	if err != nil {
		return nil, fmt.Errorf("usc release %s: %w", rel.Version, err)
	}
	return data, nil
}

// XMLFromZip extracts the title XML from a release-point ZIP. Release
// points carry a single usc26.xml, but the name has drifted across
// releases, so any .xml member naming the title is accepted, with a
// bare .xml member as fallback.
func XMLFromZip(data []byte) ([]byte, error) {
	if len(data) < 4 || !bytes.HasPrefix(data, []byte("PK")) {
		return nil, fmt.Errorf("not a zip archive")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var fallback *zip.File
	var pick *zip.File
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		if !strings.HasSuffix(name, ".xml") {
			continue
		}
		if strings.Contains(name, "usc") && strings.Contains(name, "26") {
			pick = f
			break
		}
		if fallback == nil {
			fallback = f
		}
	}
	if pick == nil {
		pick = fallback
	}
	if pick == nil {
		return nil, fmt.Errorf("no xml member in zip")
	}

	rc, err := pick.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip member %s: %w", pick.Name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("read zip member %s: %w", pick.Name, err)
	}
	return buf.Bytes(), nil
}
