package transfer

import (
	"errors"
	"strings"

	"mcpsettings/internal/domain"
)

// Source identifies another client's MCP configuration file.
type Source string

const (
	SourceClaude Source = "claude"
	SourceCodex  Source = "codex"
	SourceGemini Source = "gemini"
)

const (
	// IssueInvalid marks an entry that could not be converted.
	IssueInvalid = "invalid"
	// IssueDuplicate marks an entry skipped because its name was already seen.
	IssueDuplicate = "duplicate"
	// IssueDropped marks settings of an imported entry that have no equivalent here.
	IssueDropped = "dropped"
)

var (
	// ErrNotFound indicates the source config file is missing.
	ErrNotFound = errors.New("transfer source config not found")
	// ErrUnknownSource indicates the source string is not supported.
	ErrUnknownSource = errors.New("unknown transfer source")
	// ErrUnknownFormat indicates the export format is not supported.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Issue describes a problem with one imported entry.
type Issue struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// Result holds the servers parsed from a source. Server ids are left empty;
// the caller assigns them when persisting.
type Result struct {
	Source  Source
	Path    string
	Servers []domain.ServerConfig
	Issues  []Issue
}

// ParseSource converts a raw string into a Source.
func ParseSource(raw string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(raw))) {
	case SourceClaude:
		return SourceClaude, nil
	case SourceCodex:
		return SourceCodex, nil
	case SourceGemini:
		return SourceGemini, nil
	default:
		return "", ErrUnknownSource
	}
}
