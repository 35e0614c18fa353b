package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Loader reads scores documents from local paths or http(s) URLs.
type Loader struct {
	Client *http.Client
}

// Load reads source with a default Loader.
func Load(ctx context.Context, source string) (Document, error) {
	return Loader{}.Load(ctx, source)
}

// Load reads, schema-checks and decodes the scores document at source.
func (l Loader) Load(ctx context.Context, source string) (Document, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Document{}, fmt.Errorf("scores source is required")
	}

	var (
		data []byte
		err  error
	)
	if isURL(source) {
		data, err = l.fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return Document{}, fmt.Errorf("unable to read scores %s: %w", source, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return Document{}, fmt.Errorf("unable to parse scores %s: %w", source, err)
	}
	return doc, nil
}

// Parse validates raw JSON against the schema and decodes it.
func Parse(data []byte) (Document, error) {
	if err := ValidateSchema(data); err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (l Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
