package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSpaces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
		{name: "inner runs", input: "رامین   اجلال\tکیست؟", want: "رامین اجلال کیست؟"},
		{name: "already clean", input: "سلام دنیا", want: "سلام دنیا"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSpaces(tt.input))
		})
	}
}

func TestRemoveInvalidChars(t *testing.T) {
	assert.Equal(t, "می\u200cخواهم", RemoveInvalidChars("می\u200cخواهم"), "ZWNJ must survive")
	assert.Equal(t, "سلام", RemoveInvalidChars("س\u0640ل\u0640ام"))
	assert.Equal(t, "ab", RemoveInvalidChars("a\u200bb"))
	assert.Equal(t, "a b", RemoveInvalidChars("a\x00 b"))
	assert.Equal(t, "رامین اجلال", RemoveInvalidChars("رامین\u0652 اجلال"), "sukun")
	assert.Equal(t, "کتاب", RemoveInvalidChars("کِتاب\u064b"), "kasra and tanwin")
	assert.Equal(t, "\u0653", RemoveInvalidChars("\u0653"), "maddah is outside the harakat range")
}

func TestHashSHA256_Stable(t *testing.T) {
	a := HashSHA256("رامین اجلال کیست؟")
	b := HashSHA256("رامین اجلال کیست؟")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashSHA256("رامین"))
}

func TestGenerateID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateID(), GenerateID())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "سلا", Truncate("سلام", 3))
	assert.Equal(t, "سلام", Truncate("سلام", 10))
	assert.Equal(t, "", Truncate("سلام", 0))
}

func TestEnsureParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "knowledge.db")
	require.NoError(t, EnsureParentDir(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, EnsureParentDir("knowledge.db"))
}
