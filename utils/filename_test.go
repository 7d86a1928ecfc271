package utils

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// garble simulates a legacy multipart encoder that transmits UTF-8 names
// one byte per character.
func garble(s string) string {
	var b strings.Builder
	for _, by := range []byte(s) {
		b.WriteRune(rune(by))
	}
	return b.String()
}

func TestRepairFilename(t *testing.T) {
	t.Run("repairs garbled korean name", func(t *testing.T) {
		garbled := garble("단위테스트.txt")
		assert.NotEqual(t, "단위테스트.txt", garbled)
		assert.Equal(t, "단위테스트.txt", RepairFilename(garbled))
	})

	t.Run("ascii name unchanged", func(t *testing.T) {
		assert.Equal(t, "report.pdf", RepairFilename("report.pdf"))
	})

	t.Run("proper utf8 name unchanged", func(t *testing.T) {
		assert.Equal(t, "단위테스트.txt", RepairFilename("단위테스트.txt"))
	})

	t.Run("genuine latin1 name unchanged", func(t *testing.T) {
		// 0xE9 alone is not a valid UTF-8 sequence, so it must not be
		// reinterpreted.
		assert.Equal(t, "café.txt", RepairFilename("café.txt"))
	})
}

func TestDeriveExtension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"report.PDF", "pdf"},
		{"archive.tar.gz", "gz"},
		{"README", ""},
		{".gitignore", ""},
		{"trailing.", ""},
		{"단위테스트.txt", "txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveExtension(tt.name), "name %q", tt.name)
	}
}

func TestNewStorageKey(t *testing.T) {
	key := NewStorageKey("단위테스트.txt")

	prefix, encoded, found := strings.Cut(key, "/")
	require.True(t, found)
	assert.Len(t, prefix, 36)

	decoded, err := url.PathUnescape(encoded)
	require.NoError(t, err)
	assert.Equal(t, "단위테스트.txt", decoded)

	// Keys must be unique even for identical names
	assert.NotEqual(t, key, NewStorageKey("단위테스트.txt"))
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, SecureCompare("hunter2", "hunter2"))
	assert.False(t, SecureCompare("hunter2", "hunter3"))
	assert.False(t, SecureCompare("", "hunter2"))
	assert.True(t, SecureCompare("", ""))
}
