package retrieval

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rampart-ai/rampart/internal/policy"
	"github.com/rampart-ai/rampart/internal/types"
)

// roleTagHeader is the optional first-line directive in a corpus file that
// assigns its role tag, e.g. "#role: sales".
const roleTagHeader = "#role:"

// LoadCorpus reads every .txt and .md file in dir (non-recursive) into policy
// documents. The role tag comes from a "#role: <tag>" first line if present,
// otherwise from the filename prefix before the first underscore when that
// prefix matches a known tag, otherwise the document is role-agnostic.
//
// The document ID is the filename without extension; the source is the plain
// filename, which is what judge citations reference.
func LoadCorpus(dir string, knownTags map[string]bool) ([]policy.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, types.WrapError(types.RETRIEVAL_BACKEND_FAILED, fmt.Sprintf("failed to read corpus directory %s", dir), err)
	}

	var docs []policy.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		doc, err := loadCorpusFile(filepath.Join(dir, entry.Name()), knownTags)
		if err != nil {
			return nil, err
		}
		if doc.Content == "" {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// NewMemoryIndexFromDir builds a MemoryIndex over the corpus in dir.
func NewMemoryIndexFromDir(dir string, knownTags map[string]bool) (*MemoryIndex, error) {
	docs, err := LoadCorpus(dir, knownTags)
	if err != nil {
		return nil, err
	}
	idx := NewMemoryIndex()
	idx.Add(docs...)
	return idx, nil
}

func loadCorpusFile(path string, knownTags map[string]bool) (policy.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return policy.Document{}, types.WrapError(types.RETRIEVAL_BACKEND_FAILED, fmt.Sprintf("failed to open corpus file %s", path), err)
	}
	defer f.Close()

	name := filepath.Base(path)
	tag := policy.RoleTagAll

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sb strings.Builder
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			if strings.HasPrefix(strings.TrimSpace(line), roleTagHeader) {
				tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), roleTagHeader))
				continue
			}
			if prefixTag, ok := tagFromFilename(name, knownTags); ok {
				tag = prefixTag
			}
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return policy.Document{}, types.WrapError(types.RETRIEVAL_BACKEND_FAILED, fmt.Sprintf("failed to read corpus file %s", path), err)
	}

	return policy.Document{
		ID:      strings.TrimSuffix(name, filepath.Ext(name)),
		Content: strings.TrimSpace(sb.String()),
		RoleTag: tag,
		Source:  name,
	}, nil
}

// tagFromFilename extracts the role tag from filenames like
// "sales_investment_conduct.txt" when the prefix is a known tag.
func tagFromFilename(name string, knownTags map[string]bool) (string, bool) {
	prefix, _, found := strings.Cut(name, "_")
	if !found {
		return "", false
	}
	if knownTags[prefix] {
		return prefix, true
	}
	return "", false
}
