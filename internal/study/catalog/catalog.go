// Package catalog loads the topic catalog that seeds a new study state.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/louisbranch/studyforge/internal/platform/errors"
)

//go:embed data/topics.yaml
var defaultTopics []byte

// Entry is one topic offered by the catalog.
type Entry struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Category Category `yaml:"category"`
}

type manifest struct {
	Topics []rawEntry `yaml:"topics"`
}

type rawEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// Default returns the catalog embedded in the binary.
func Default() ([]Entry, error) {
	return Load(bytes.NewReader(defaultTopics))
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCatalogInvalid, "open catalog", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML catalog. Topic ids are compared case-insensitively and
// a malformed catalog is rejected as a whole.
func Load(r io.Reader) ([]Entry, error) {
	var m manifest
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		if err == io.EOF {
			return nil, apperrors.New(apperrors.CodeCatalogInvalid, "catalog is empty")
		}
		return nil, apperrors.Wrap(apperrors.CodeCatalogInvalid, "decode catalog", err)
	}
	if len(m.Topics) == 0 {
		return nil, apperrors.New(apperrors.CodeCatalogInvalid, "catalog has no topics")
	}

	seen := make(map[string]struct{}, len(m.Topics))
	entries := make([]Entry, 0, len(m.Topics))
	for i, raw := range m.Topics {
		id := strings.TrimSpace(raw.ID)
		name := strings.TrimSpace(raw.Name)
		if id == "" {
			return nil, invalidEntry(i, "id is required")
		}
		if name == "" {
			return nil, invalidEntry(i, "name is required")
		}
		category, ok := ParseCategory(raw.Category)
		if !ok {
			return nil, invalidEntry(i, fmt.Sprintf("unknown category %q", raw.Category))
		}
		key := foldKey(id)
		if _, dup := seen[key]; dup {
			return nil, invalidEntry(i, fmt.Sprintf("duplicate id %q", id))
		}
		seen[key] = struct{}{}
		entries = append(entries, Entry{ID: id, Name: name, Category: category})
	}
	return entries, nil
}

// NeedsReload reports whether the host should (re)load the catalog: nothing
// is loaded yet, or the loaded count disagrees with the expected count.
// An expected count of zero means any non-empty set is accepted.
func NeedsReload(topicCount, expected int) bool {
	if topicCount == 0 {
		return true
	}
	return expected > 0 && topicCount != expected
}

func invalidEntry(index int, message string) error {
	return apperrors.WithMetadata(apperrors.CodeCatalogInvalid, "topic "+message, map[string]string{
		"index": fmt.Sprint(index),
	})
}
