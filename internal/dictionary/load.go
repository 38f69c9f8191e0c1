package dictionary

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed words.txt
var builtinWords string

// builtin parses the embedded list once per process.
var builtin = sync.OnceValue(func() []string {
	words, err := Load(strings.NewReader(builtinWords))
	if err != nil {
		// The embedded list is plain text; reading a string cannot fail.
		panic(fmt.Sprintf("dictionary: parse built-in list: %v", err))
	}
	return words
})

// Builtin returns the default dictionary. Each call returns a fresh copy,
// so callers may modify the slice without affecting anyone else.
func Builtin() []string {
	words := builtin()
	out := make([]string, len(words))
	copy(out, words)
	return out
}

// Load reads newline-delimited terms from r. Surrounding whitespace is
// trimmed; blank lines and lines starting with "#" are skipped.
func Load(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxScanTokenSize)

	words := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read terms: %w", err)
	}
	return words, nil
}

// yamlList accepts either a bare sequence or a mapping with a "words" key.
type yamlList struct {
	Words []string `yaml:"words"`
}

// LoadFile reads a dictionary file. The format is picked by extension:
// ".json" is an array of strings, ".yaml"/".yml" is either a sequence or
// a mapping with a "words" key, anything else is newline-delimited text.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var words []string
		if err := json.Unmarshal(data, &words); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return clean(words), nil

	case ".yaml", ".yml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if len(node.Content) == 0 {
			return []string{}, nil
		}

		var words []string
		doc := node.Content[0]
		if doc.Kind == yaml.MappingNode {
			var list yamlList
			if err := doc.Decode(&list); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			words = list.Words
		} else if err := doc.Decode(&words); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return clean(words), nil

	default:
		words, err := Load(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return words, nil
	}
}

// clean trims structured-format entries and drops the empty ones.
func clean(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
