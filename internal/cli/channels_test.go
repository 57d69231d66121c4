package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannelList(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		expected []string
	}{
		{
			name:     "Single name",
			arg:      "durov",
			expected: []string{"durov"},
		},
		{
			name:     "Mixed forms",
			arg:      "@durov, t.me/telegram, https://t.me/s/somechannel",
			expected: []string{"durov", "telegram", "somechannel"},
		},
		{
			name:     "URL with trailing path and query",
			arg:      "https://t.me/durov/123?single",
			expected: []string{"durov"},
		},
		{
			name:     "Uppercase is normalized",
			arg:      "Durov",
			expected: []string{"durov"},
		},
		{
			name:     "Empty items are dropped",
			arg:      "durov,,  ,telegram",
			expected: []string{"durov", "telegram"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseChannelList(tt.arg))
		})
	}
}

func TestParseChannelsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.txt")

	content := `# my channels
durov
@telegram, t.me/somechannel

https://t.me/other # inline comment
`

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	channels, err := ParseChannelsFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"durov", "telegram", "somechannel", "other"}, channels)
}

func TestParseChannelsFile_Missing(t *testing.T) {
	_, err := ParseChannelsFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
