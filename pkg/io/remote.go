package io

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/matzehuels/bargroup/pkg/httputil"
)

// ImportURL fetches a chart with f and decodes it. A text/csv content type
// or a .csv path selects CSV; everything else is read as TOML.
func ImportURL(ctx context.Context, f *httputil.Fetcher, rawURL string) (*Document, error) {
	resp, err := f.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	read := ReadTOML
	if isCSV(resp.ContentType, rawURL) {
		read = ReadCSV
	}
	doc, err := read(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rawURL, err)
	}
	return doc, nil
}

// URLName returns the base name of a URL's path, or "chart" when the path
// has none.
func URLName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "chart"
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "chart"
	}
	return name
}

func isCSV(contentType, rawURL string) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "text/csv":
			return true
		case "application/toml":
			return false
		}
	}
	return strings.EqualFold(path.Ext(URLName(rawURL)), ".csv")
}
