package session

import (
	"encoding/json"
	"strings"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

const (
	delimiter   = "---"
	blockHeader = "Strategy Config:"
	// padding surrounds the delimiter and header in rendered documents.
	padding = "\n\n"
)

// Document is a project file: strategy prose, optionally followed by a settings block.
type Document struct {
	// Prose is the text before the delimiter with trailing whitespace removed.
	Prose string
	// Raw is the text before the delimiter as written, less the padding Render puts
	// in front of the delimiter. Render emits it unchanged.
	Raw string
	// Block is the raw settings JSON. Empty when HasBlock is false.
	Block    string
	HasBlock bool
}

// ParseDocument splits text at the delimiter. The delimiter that introduces a
// "Strategy Config:" header is preferred so prose may contain its own rules.
func ParseDocument(text string) Document {
	at := -1

	for offset := 0; ; {
		i := strings.Index(text[offset:], delimiter)
		if i < 0 {
			break
		}

		i += offset
		if at < 0 {
			at = i
		}

		if strings.HasPrefix(strings.TrimLeft(text[i+len(delimiter):], " \t\r\n"), blockHeader) {
			at = i

			break
		}

		offset = i + len(delimiter)
	}

	if at < 0 {
		return Document{Prose: strings.TrimRight(text, " \t\r\n"), Raw: text}
	}

	rest := text[at+len(delimiter):]
	if _, after, ok := strings.Cut(rest, blockHeader); ok {
		rest = after
	}

	raw := strings.TrimSuffix(strings.TrimSuffix(text[:at], "\n"), "\n")

	return Document{
		Prose:    strings.TrimRight(text[:at], " \t\r\n"),
		Raw:      raw,
		Block:    strings.TrimSpace(rest),
		HasBlock: true,
	}
}

// Render writes the raw prose followed by settings as an indented block. Rendering a
// parsed rendered document reproduces it byte for byte.
func (d Document) Render(settings Settings) (string, error) {
	body, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to encode settings", err)
	}

	return d.Raw + padding + delimiter + padding + blockHeader + padding + string(body), nil
}
