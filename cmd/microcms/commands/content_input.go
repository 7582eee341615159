package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fivetwenty-io/microcms-go/internal/constants"
	"github.com/fivetwenty-io/microcms-go/pkg/microcms"
	"gopkg.in/yaml.v3"
)

// readContent loads a content body from inline data or a file. A file of "-"
// reads stdin. JSON is tried first, then YAML.
func readContent(stdin io.Reader, data, file string) (microcms.Content, error) {
	if data != "" && file != "" {
		return nil, constants.ErrContentConflict
	}

	var raw []byte

	switch {
	case data != "":
		raw = []byte(data)
	case file == "-":
		read, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		raw = read
	case file != "":
		read, err := os.ReadFile(file) // #nosec G304 -- path comes from the user
		if err != nil {
			return nil, fmt.Errorf("failed to read content file: %w", err)
		}

		raw = read
	default:
		return nil, constants.ErrContentRequired
	}

	return parseContent(raw)
}

func parseContent(raw []byte) (microcms.Content, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, constants.ErrContentRequired
	}

	var content microcms.Content

	if trimmed[0] == '{' {
		err := json.Unmarshal(trimmed, &content)
		if err == nil {
			return content, nil
		}
	}

	err := yaml.Unmarshal(trimmed, &content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidContent, err)
	}

	if content == nil {
		return nil, constants.ErrInvalidContent
	}

	return content, nil
}
