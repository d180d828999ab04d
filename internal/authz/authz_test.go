package authz

import (
	"testing"

	"github.com/smallbiznis/skycover/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestIsAuthority(t *testing.T) {
	a := New(config.Config{AuthorityID: " oracle-1 "})

	assert.True(t, a.IsAuthority("oracle-1"))
	assert.True(t, a.IsAuthority(" oracle-1 "))
	assert.False(t, a.IsAuthority("alice"))
	assert.False(t, a.IsAuthority(""))

	// An unset authority matches nobody, not everybody.
	empty := New(config.Config{})
	assert.False(t, empty.IsAuthority(""))
	assert.False(t, empty.IsAuthority("oracle-1"))
}

func TestCanOperate(t *testing.T) {
	a := New(config.Config{AuthorityID: "oracle-1"})

	assert.True(t, a.CanOperate("alice", "alice"))
	assert.True(t, a.CanOperate("oracle-1", "alice"))
	assert.False(t, a.CanOperate("mallory", "alice"))
	assert.False(t, a.CanOperate("", "alice"))
	assert.False(t, a.CanOperate("", ""))
}
