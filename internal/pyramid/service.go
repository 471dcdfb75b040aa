package pyramid

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Load retrieves a service description and parses it. rawRef is either the
// http(s) URL of the cached map service, whose JSON representation is
// requested with f=json and whose tile endpoint is {service}/tile, or a
// local file path, in which case tileURL names the tile endpoint explicitly.
func Load(rawRef, tileURL string) (*Descriptor, error) {
	if strings.HasPrefix(rawRef, "http://") || strings.HasPrefix(rawRef, "https://") {
		return loadService(rawRef)
	}
	if tileURL == "" {
		return nil, fmt.Errorf("a tile endpoint URL is required with a local service document")
	}
	data, err := os.ReadFile(rawRef)
	if err != nil {
		return nil, fmt.Errorf("failed to read service document: %w", err)
	}
	return Parse(data, strings.TrimSuffix(tileURL, "/"))
}

func loadService(serviceURL string) (*Descriptor, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid service URL: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	base := (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String()

	q := u.Query()
	q.Set("f", "json")
	u.RawQuery = q.Encode()

	resp, err := http.Get(u.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service document request failed with status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read service document: %w", err)
	}

	return Parse(data, base+"/tile")
}
