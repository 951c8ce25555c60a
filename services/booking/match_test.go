package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveName(t *testing.T) {
	services := []string{"カット", "カラー", "パーマ", "トリートメント"}

	t.Run("exact match", func(t *testing.T) {
		got, ok := ResolveName("カラー", services)
		assert.True(t, ok)
		assert.Equal(t, "カラー", got)
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		staff := []string{"Tanaka", "Sato"}
		got, ok := ResolveName("tanaka", staff)
		assert.True(t, ok)
		assert.Equal(t, "Tanaka", got)
	})

	t.Run("input containing the candidate", func(t *testing.T) {
		got, ok := ResolveName("カットでお願いします", services)
		assert.True(t, ok)
		assert.Equal(t, "カット", got)
	})

	t.Run("input contained in the candidate", func(t *testing.T) {
		got, ok := ResolveName("トリート", services)
		assert.True(t, ok)
		assert.Equal(t, "トリートメント", got)
	})

	t.Run("substring tie takes first catalog entry", func(t *testing.T) {
		got, ok := ResolveName("カ", services)
		assert.True(t, ok)
		assert.Equal(t, "カット", got)
	})

	t.Run("whitespace trimmed", func(t *testing.T) {
		got, ok := ResolveName("  パーマ ", services)
		assert.True(t, ok)
		assert.Equal(t, "パーマ", got)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := ResolveName("ネイル", services)
		assert.False(t, ok)
	})

	t.Run("empty input", func(t *testing.T) {
		_, ok := ResolveName("   ", services)
		assert.False(t, ok)
	})
}
