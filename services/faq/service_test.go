package faq

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kbFixture = `[
  {"キー": "SALON_NAME", "例（置換値）": "SalonAI 表参道店", "備考": "店名、お店の名前"},
  {"キー": "ADDRESS", "例（置換値）": "東京都渋谷区神宮前1-2-3", "備考": "住所、場所、所在地"},
  {"キー": "HOLIDAY", "例（置換値）": "毎週日曜日", "備考": "定休日、休み、休業日"},
  {"キー": "PARKING", "例（置換値）": "近隣コインパーキングをご利用ください", "備考": "駐車場、パーキング"}
]`

func loadFixtureKB(t *testing.T) *KnowledgeBase {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kb.json")
	require.NoError(t, os.WriteFile(path, []byte(kbFixture), 0o644))
	kb, err := LoadKB(path)
	require.NoError(t, err)
	require.False(t, kb.Empty())
	return kb
}

func TestSearchMatchesByNoteKeyword(t *testing.T) {
	kb := loadFixtureKB(t)

	item, ok := kb.Search("定休日はいつですか")
	require.True(t, ok)
	assert.Equal(t, "HOLIDAY", item.Key)

	item, ok = kb.Search("駐車場はありますか")
	require.True(t, ok)
	assert.Equal(t, "PARKING", item.Key)
}

func TestSearchExpandsSynonyms(t *testing.T) {
	kb := loadFixtureKB(t)

	// "休み" is indexed via the 定休日 note synonyms.
	item, ok := kb.Search("お休みの日を教えてください")
	require.True(t, ok)
	assert.Equal(t, "HOLIDAY", item.Key)
}

func TestSearchNoMatch(t *testing.T) {
	kb := loadFixtureKB(t)
	_, ok := kb.Search("今夜の天気はどうですか")
	assert.False(t, ok)
}

func TestLoadKBMissingFileIsEmpty(t *testing.T) {
	kb, err := LoadKB(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.True(t, kb.Empty())
	_, ok := kb.Search("定休日は？")
	assert.False(t, ok)
}

type cannedGenerator struct {
	reply string
	err   error
}

func (c *cannedGenerator) GenerateContent(context.Context, string) (string, error) {
	return c.reply, c.err
}

func TestAnswerUsesGenerator(t *testing.T) {
	svc := NewDefaultFAQService(loadFixtureKB(t), &cannedGenerator{reply: "定休日は毎週日曜日でございます。"})
	got := svc.Answer(context.Background(), "定休日はいつ？")
	assert.Equal(t, "定休日は毎週日曜日でございます。", got)
}

func TestAnswerFallsBackOnGeneratorError(t *testing.T) {
	svc := NewDefaultFAQService(loadFixtureKB(t), &cannedGenerator{err: errors.New("quota exceeded")})
	got := svc.Answer(context.Background(), "定休日はいつ？")
	assert.Equal(t, "定休日は「毎週日曜日」です。", got)
}

func TestAnswerWithoutGenerator(t *testing.T) {
	svc := NewDefaultFAQService(loadFixtureKB(t), nil)
	got := svc.Answer(context.Background(), "住所を教えてください")
	assert.Equal(t, "住所は「東京都渋谷区神宮前1-2-3」です。", got)
}

func TestAnswerUnknownQuestion(t *testing.T) {
	svc := NewDefaultFAQService(loadFixtureKB(t), nil)
	got := svc.Answer(context.Background(), "今夜の天気はどうですか")
	assert.Equal(t, msgUnknownAnswer, got)
}
