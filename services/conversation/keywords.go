package conversation

import (
	"strings"

	"salonai/models"
)

// Intent classifies a message that arrives with no active session.
type Intent int

const (
	IntentGeneral Intent = iota
	IntentBooking
	IntentModification
	IntentCancelInfo
)

var cancelKeywords = []string{"キャンセル", "取り消し", "やめる", "中止"}

// Modification keywords are checked before booking keywords: "予約変更"
// contains "予約" and would otherwise start a fresh booking.
var modificationKeywords = []string{"予約変更", "変更"}

var bookingKeywords = []string{
	"予約", "予約したい", "予約お願い", "予約できますか",
	"空いてる", "空き", "時間", "いつ", "可能",
}

var cancelInfoKeywords = []string{"キャンセル", "取り消し"}

// IsCancelKeyword reports whether the message is an explicit abort of the
// current flow. Matched by whole message, not substring, so that ordinary
// sentences mentioning cancellation do not tear down a flow mid-step.
func IsCancelKeyword(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, k := range cancelKeywords {
		if t == k {
			return true
		}
	}
	return false
}

// DetectIntent classifies a message from a user with no active session.
func DetectIntent(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, k := range modificationKeywords {
		if strings.Contains(t, k) {
			return IntentModification
		}
	}
	for _, k := range bookingKeywords {
		if strings.Contains(t, k) {
			return IntentBooking
		}
	}
	for _, k := range cancelInfoKeywords {
		if strings.Contains(t, k) {
			return IntentCancelInfo
		}
	}
	return IntentGeneral
}

// fieldKeywords maps every natural paraphrase of a modifiable field to that
// field. The tables are deliberately generous: a missing synonym shows up to
// the user as an endless re-prompt, so new paraphrases belong here.
var fieldKeywords = []struct {
	field models.Field
	words []string
}{
	{models.FieldTime, []string{"時間", "日時", "時刻", "時間帯", "開始時間", "スタート"}},
	{models.FieldService, []string{"サービス", "メニュー", "コース", "内容", "施術"}},
	{models.FieldStaff, []string{"担当", "担当者", "スタッフ", "美容師", "指名"}},
}

var fieldShortcuts = map[string]models.Field{
	"1": models.FieldTime, "１": models.FieldTime,
	"2": models.FieldService, "２": models.FieldService,
	"3": models.FieldStaff, "３": models.FieldStaff,
}

// ResolveField maps free-text field-selection input to a field, accepting
// the numeric shortcuts from the menu or any recognized keyword substring.
func ResolveField(input string) (models.Field, bool) {
	t := strings.ToLower(strings.TrimSpace(input))
	if t == "" {
		return "", false
	}
	if f, ok := fieldShortcuts[t]; ok {
		return f, true
	}
	for _, entry := range fieldKeywords {
		for _, w := range entry.words {
			if strings.Contains(t, w) {
				return entry.field, true
			}
		}
	}
	return "", false
}

type aliasEntry struct {
	key   string
	value string
}

// serviceAliases covers romanized service names users type from non-Japanese
// keyboards. Resolved before the catalog matching chain; declaration order
// decides when an input contains more than one key.
var serviceAliases = []aliasEntry{
	{"cut", "カット"},
	{"color", "カラー"},
	{"perm", "パーマ"},
	{"treatment", "トリートメント"},
}

// staffAliases maps "leave it to the salon" phrasings to the unassigned
// staff entry.
var staffAliases = []aliasEntry{
	{"担当者", "未指定"},
	{"美容師", "未指定"},
	{"おまかせ", "未指定"},
	{"お任せ", "未指定"},
}

func resolveAlias(input string, aliases []aliasEntry) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(input))
	for _, a := range aliases {
		if strings.Contains(t, a.key) {
			return a.value, true
		}
	}
	return "", false
}
