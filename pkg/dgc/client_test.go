package dgc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesBaseURL(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	c, err := New("https://catalog.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://catalog.example.com", c.BaseURL())
	assert.Equal(t, "https://catalog.example.com/rest/2.0", c.apiBase)
}

func TestNewAppliesOptions(t *testing.T) {
	c, err := New("https://catalog.example.com",
		WithBasicAuth("alice", "secret"),
		WithTimeout(5*time.Second),
		WithRetry(2),
		WithUserAgent("custom-agent"),
	)
	require.NoError(t, err)
	assert.Equal(t, "alice", c.username)
	assert.Equal(t, "secret", c.password)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	assert.Equal(t, uint64(2), c.maxRetries)
	assert.Equal(t, "custom-agent", c.userAgent)
}

func TestNewWiresServices(t *testing.T) {
	c, err := New("https://catalog.example.com")
	require.NoError(t, err)
	assert.NotNil(t, c.Assets)
	assert.NotNil(t, c.Relations)
	assert.NotNil(t, c.Domains)
	assert.NotNil(t, c.Communities)
	assert.NotNil(t, c.Attributes)
	assert.NotNil(t, c.Types)
	assert.NotNil(t, c.Search)
	assert.NotNil(t, c.Users)
}

func TestRequireUUID(t *testing.T) {
	assert.NoError(t, requireUUID("asset id", "b8a61ef4-50cf-4f26-ae26-7e3dcea1a2b4"))
	assert.Error(t, requireUUID("asset id", ""))
	assert.Error(t, requireUUID("asset id", "not-a-uuid"))

	assert.NoError(t, optionalUUID("status id", ""))
	assert.NoError(t, optionalUUID("status id", "b8a61ef4-50cf-4f26-ae26-7e3dcea1a2b4"))
	assert.Error(t, optionalUUID("status id", "nope"))
}
