package services

import (
	"html"
	"strings"
	"sync"

	"github.com/localnerve/jam-build-formsdb/internal/types"
	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// plainText strips any markup from owner supplied text. The result is stored
// unescaped; escaping is the renderer's job.
func plainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}

// exactText returns raw without surrounding whitespace. Labels and titles
// are stored verbatim, so text the sanitizer would rewrite is rejected
// instead of altered.
func exactText(raw, what string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", types.NewSchemaViolation("%s must not be empty", what)
	}
	if plainText(trimmed) != trimmed {
		return "", types.NewSchemaViolation("%s '%s' must be plain text without markup", what, trimmed)
	}
	return trimmed, nil
}
