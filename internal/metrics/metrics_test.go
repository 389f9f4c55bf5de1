package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSource(t *testing.T) {
	assert.Equal(t, "lite.cnn.com", SanitizeSource("https://lite.cnn.com/2026/03/14/story"))
	assert.Equal(t, "text.npr.org", SanitizeSource("text.npr.org/g-s1-000001"))
	assert.Equal(t, "example.com", SanitizeSource("http://EXAMPLE.COM/a"))
	assert.Equal(t, "unknown", SanitizeSource(""))
	assert.Equal(t, "unknown", SanitizeSource("://nope"))
}
