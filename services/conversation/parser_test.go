package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockMinute(t *testing.T) {
	cases := []struct {
		input string
		want  int
		ok    bool
	}{
		{"10時", 600, true},
		{"10時30分", 630, true},
		{"10時30", 630, true},
		{"9", 540, true},
		{"10:30", 630, true},
		{"10:30分", 630, true},
		{"10：30", 630, true}, // full-width colon
		{" 14:00 ", 840, true},
		{"0時", 0, true},
		{"23時59分", 1439, true},
		{"24時", 0, false},
		{"10時60分", 0, false},
		{"あした", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseClockMinute(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.input)
		}
	}
}

func TestParseTimeRange(t *testing.T) {
	const bare = -1

	start, end, ok := ParseTimeRange("10:00~11:30", bare)
	require.True(t, ok)
	assert.Equal(t, 600, start)
	assert.Equal(t, 690, end)

	start, end, ok = ParseTimeRange("10時〜11時30分", bare)
	require.True(t, ok)
	assert.Equal(t, 600, start)
	assert.Equal(t, 690, end)

	start, end, ok = ParseTimeRange("15時30分", bare)
	require.True(t, ok)
	assert.Equal(t, 930, start)
	assert.Equal(t, bare, end, "bare start keeps the sentinel end")

	_, _, ok = ParseTimeRange("11:00~10:00", bare)
	assert.False(t, ok, "inverted range")

	_, _, ok = ParseTimeRange("そろそろ", bare)
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	// A Wednesday.
	now := time.Date(2025, 6, 4, 10, 0, 0, 0, loc)

	got, ok := ParseDate("明日", now)
	require.True(t, ok)
	assert.Equal(t, "2025-06-05", got)

	got, ok = ParseDate("明後日でお願いします", now)
	require.True(t, ok)
	assert.Equal(t, "2025-06-06", got)

	got, ok = ParseDate("土曜日", now)
	require.True(t, ok)
	assert.Equal(t, "2025-06-07", got)

	// Same weekday as today rolls to next week.
	got, ok = ParseDate("水曜日", now)
	require.True(t, ok)
	assert.Equal(t, "2025-06-11", got)

	got, ok = ParseDate("2025-07-01", now)
	require.True(t, ok)
	assert.Equal(t, "2025-07-01", got)

	got, ok = ParseDate("7月1日", now)
	require.True(t, ok)
	assert.Equal(t, "2025-07-01", got)

	// A month-day already past this year lands in the next year.
	got, ok = ParseDate("1月10日", now)
	require.True(t, ok)
	assert.Equal(t, "2026-01-10", got)

	_, ok = ParseDate("そのうち", now)
	assert.False(t, ok)

	_, ok = ParseDate("13月1日", now)
	assert.False(t, ok)
}

func TestResolveField(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"1", "time", true},
		{"２", "service", true},
		{"3", "staff", true},
		{"時間", "time", true},
		{"時間帯を変えたい", "time", true},
		{"日時の変更", "time", true},
		{"メニューを変更したい", "service", true},
		{"コース", "service", true},
		{"担当者", "staff", true},
		{"スタッフを変えてほしい", "staff", true},
		{"指名を変えたい", "staff", true},
		{"4", "", false},
		{"場所", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ResolveField(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		if tc.ok {
			assert.Equal(t, tc.want, string(got), "input %q", tc.input)
		}
	}
}

func TestDetectIntent(t *testing.T) {
	assert.Equal(t, IntentModification, DetectIntent("予約変更をお願いします"))
	assert.Equal(t, IntentModification, DetectIntent("時間を変更したい"))
	assert.Equal(t, IntentBooking, DetectIntent("予約したいです"))
	assert.Equal(t, IntentBooking, DetectIntent("明日空いてる？"))
	assert.Equal(t, IntentCancelInfo, DetectIntent("キャンセルについて"))
	assert.Equal(t, IntentGeneral, DetectIntent("営業は何曜日ですか"))
}

func TestIsCancelKeyword(t *testing.T) {
	assert.True(t, IsCancelKeyword("キャンセル"))
	assert.True(t, IsCancelKeyword(" やめる "))
	assert.True(t, IsCancelKeyword("中止"))
	assert.False(t, IsCancelKeyword("キャンセル料はかかりますか"))
}

func TestResolveAliasDeclarationOrder(t *testing.T) {
	name, ok := resolveAlias("Cut", serviceAliases)
	assert.True(t, ok)
	assert.Equal(t, "カット", name)

	// Input containing several keys always resolves to the first declared.
	name, ok = resolveAlias("cut and color please", serviceAliases)
	assert.True(t, ok)
	assert.Equal(t, "カット", name)

	name, ok = resolveAlias("美容師さんはおまかせで", staffAliases)
	assert.True(t, ok)
	assert.Equal(t, "未指定", name)

	_, ok = resolveAlias("shampoo", serviceAliases)
	assert.False(t, ok)
}
