// Package filename extracts a working title and optional hints from a game
// file name.
//
// A name may carry one bracketed block, e.g. "Zelda [106, FR].zip". Numeric
// tokens in the block are an IGDB id; any other token is a language tag.
package filename

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Parsed is the result of Parse.
type Parsed struct {
	Title    string
	ID       uint64
	HasID    bool
	Language string
}

// Parse reads the final path segment of path. The language is returned as
// written.
func Parse(path string) Parsed {
	name := filepath.Base(path)
	var parsed Parsed

	if end := strings.LastIndex(name, "]"); end >= 0 {
		if start := strings.LastIndex(name[:end], "["); start >= 0 {
			parsed.readBlock(name[start+1 : end])
			name = name[:start] + name[end+1:]
		}
	}

	if dot := strings.Index(name, "."); dot >= 0 {
		name = name[:dot]
	}
	parsed.Title = strings.TrimSpace(name)
	return parsed
}

func (p *Parsed) readBlock(block string) {
	for _, token := range strings.Split(block, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if id, err := strconv.ParseUint(token, 10, 64); err == nil {
			p.ID = id
			p.HasID = true
			continue
		}
		p.Language = token
	}
}
