package directory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryAttributes(t *testing.T) {
	entry := Entry{
		LoginName:   "a@example.org",
		DisplayName: "Alice Example",
		UID:         1_000_042,
	}

	attrs := entry.attributes()
	byName := make(map[string][]string, len(attrs))
	for _, attr := range attrs {
		byName[attr.name] = attr.values
	}

	assert.Equal(t, []string{"account", "posixAccount", "top", "shadowAccount"}, byName["objectClass"])
	assert.Equal(t, []string{"a@example.org"}, byName["uid"])
	assert.Equal(t, []string{"Alice Example"}, byName["cn"])
	assert.Equal(t, []string{"1000042"}, byName["uidNumber"])
	assert.Equal(t, byName["uidNumber"], byName["gidNumber"])
	assert.Equal(t, []string{"/"}, byName["homeDirectory"])
	assert.Equal(t, []string{"-1"}, byName["shadowExpire"])
	assert.Equal(t, []string{"999999"}, byName["shadowMax"])
}

func TestEntryInitialPasswordIsUnusable(t *testing.T) {
	entry := Entry{LoginName: "a@example.org", DisplayName: "Alice", UID: 1}

	var password string
	for _, attr := range entry.attributes() {
		if attr.name == "userPassword" {
			require.Len(t, attr.values, 1)
			password = attr.values[0]
		}
	}

	require.NotEmpty(t, password)
	assert.True(t, strings.HasPrefix(password, "!"))
	assert.Greater(t, len(password), 20)

	// Two entries never share an initial marker.
	other := Entry{LoginName: "b@example.org", DisplayName: "Bob", UID: 2}
	for _, attr := range other.attributes() {
		if attr.name == "userPassword" {
			assert.NotEqual(t, password, attr.values[0])
		}
	}
}
