package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleBooksBase = "https://www.googleapis.com/books/v1/volumes"

// MetadataLookup resolves catalog fields for an ISBN.
type MetadataLookup interface {
	Lookup(ctx context.Context, isbn string) (*BookMetadata, error)
}

// BookMetadata is the subset of volume data a catalog entry can use.
type BookMetadata struct {
	Title    string
	Author   string
	CoverURL string
}

// googleBooksVolumesResp is the response from GET /volumes?q=isbn:...
type googleBooksVolumesResp struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title    string   `json:"title"`
			Subtitle string   `json:"subtitle"`
			Authors  []string `json:"authors"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// GoogleBooks looks up metadata through the Google Books volumes API.
type GoogleBooks struct {
	Client  *http.Client
	BaseURL string
}

func NewGoogleBooks() *GoogleBooks {
	// short timeout so a slow upstream doesn't hold up book creation
	return &GoogleBooks{Client: &http.Client{Timeout: 10 * time.Second}, BaseURL: googleBooksBase}
}

func (g *GoogleBooks) Lookup(ctx context.Context, isbn string) (*BookMetadata, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	if clean == "" {
		return nil, fmt.Errorf("isbn is required")
	}
	q := url.Values{}
	q.Set("q", "isbn:"+clean)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books returned %d", resp.StatusCode)
	}
	var data googleBooksVolumesResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.TotalItems == 0 || len(data.Items) == 0 {
		return nil, fmt.Errorf("no volume found for isbn %s", clean)
	}
	vi := data.Items[0].VolumeInfo
	meta := &BookMetadata{
		Title:    vi.Title,
		Author:   strings.Join(vi.Authors, ", "),
		CoverURL: openLibraryCoverURL(clean),
	}
	if vi.Subtitle != "" {
		meta.Title = meta.Title + ": " + vi.Subtitle
	}
	return meta, nil
}

// Open Library serves covers by ISBN without the captcha Google's image links hit.
func openLibraryCoverURL(isbn string) string {
	return "https://covers.openlibrary.org/b/isbn/" + url.PathEscape(isbn) + "-L.jpg"
}
