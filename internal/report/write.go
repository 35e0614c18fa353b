package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

const (
	// IndexFile is the page written by WriteSite.
	IndexFile = "index.html"
	// DataFile holds the same payload the page embeds.
	DataFile = "leaderboard.json"
)

// WriteSite renders site into dir. With compress set, every file gets a
// precompressed .gz sibling. It returns the written paths in order.
func WriteSite(dir string, site *Site, compress bool) ([]string, error) {
	page, err := RenderHTML(site)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	data, err := json.MarshalIndent(site.Payload(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	files := []struct {
		name string
		body []byte
	}{
		{IndexFile, page},
		{DataFile, data},
	}
	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.body, 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
		if !compress {
			continue
		}
		gzPath := path + ".gz"
		if err := writeGzip(gzPath, f.body); err != nil {
			return written, fmt.Errorf("compress %s: %w", f.name, err)
		}
		written = append(written, gzPath)
	}
	return written, nil
}

func writeGzip(path string, body []byte) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	zw, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		out.Close()
		return err
	}
	if _, err := zw.Write(body); err != nil {
		zw.Close()
		out.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
