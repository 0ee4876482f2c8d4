package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.True(t, opts.Headless)
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 1920, opts.ViewportWidth)
	assert.Equal(t, 1080, opts.ViewportHeight)
	assert.Equal(t, "de-DE", opts.Locale)
	assert.Equal(t, "Europe/Berlin", opts.TimezoneID)
	assert.NotEmpty(t, opts.UserAgent)
	assert.Equal(t, "1", opts.ExtraHeaders["DNT"])
}
