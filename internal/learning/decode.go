package learning

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNoJSONObject = errors.New("no JSON object in provider output")

	validate = validator.New()
)

func decodeStrict(text string, dst any) error {
	obj := extractFirstJSONObject(text)
	if obj == "" {
		return ErrNoJSONObject
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(obj)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode provider json: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("provider json shape: %w", err)
	}
	return nil
}

// extractFirstJSONObject returns the first balanced {...} block, skipping
// braces inside string literals. Models sometimes wrap JSON in prose or
// code fences.
func extractFirstJSONObject(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
