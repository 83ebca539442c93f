package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxDocumentSize caps remote and local reads.
const maxDocumentSize = 4 << 20

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func fetch(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if source == "" {
		return nil, errors.New("no resume source configured")
	}
	if !isRemote(source) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read resume: %w", err)
		}
		if len(data) > maxDocumentSize {
			return nil, fmt.Errorf("resume %s exceeds %d bytes", source, maxDocumentSize)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resume: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch resume: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read resume body: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("resume %s exceeds %d bytes", source, maxDocumentSize)
	}
	return data, nil
}

// Parse decodes a YAML or JSON document. Unknown fields are ignored and
// missing sections decode to their zero values.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty resume document")
	}

	var doc Document
	if trimmed[0] == '{' {
		// yaml.v3 rejects tab-indented JSON, so JSON goes through encoding/json.
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse resume: %w", err)
		}
		return &doc, nil
	}

	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse resume: %w", err)
	}
	return &doc, nil
}

// Marshal encodes doc as YAML.
func Marshal(doc *Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}
	return data, nil
}
