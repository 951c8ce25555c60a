package faq

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// KBItem is one salon fact. The JSON tags match the spreadsheet export the
// salon maintains, so the file round-trips without renaming columns.
type KBItem struct {
	Key   string `json:"キー"`
	Value string `json:"例（置換値）"`
	Note  string `json:"備考"`
}

// KnowledgeBase is the salon fact sheet with a keyword index for lookup.
// Loaded once at startup and treated as immutable.
type KnowledgeBase struct {
	items []KBItem
	index map[string][]string
}

// LoadKB reads the knowledge base file. A missing or empty path yields an
// empty KB: the FAQ service then answers every question with the fallback.
func LoadKB(path string) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{index: make(map[string][]string)}
	if path == "" {
		return kb, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return kb, nil
		}
		return nil, fmt.Errorf("failed to read KB file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &kb.items); err != nil {
		return nil, fmt.Errorf("failed to parse KB file %s: %w", path, err)
	}
	for _, item := range kb.items {
		keywords := extractKeywords(item.Note + " " + item.Value)
		keywords = append(keywords, strings.ToLower(item.Key))
		kb.index[item.Key] = expandSynonyms(keywords)
	}
	return kb, nil
}

func (kb *KnowledgeBase) Empty() bool { return len(kb.items) == 0 }

// Search returns the best-matching fact for the question. Japanese text has
// no word boundaries, so matching tests whether indexed keywords occur as
// substrings of the question, weighting longer hits higher. Returns false
// when no keyword of any fact occurs in the question.
func (kb *KnowledgeBase) Search(question string) (KBItem, bool) {
	q := strings.ToLower(question)

	var best KBItem
	bestScore := 0
	for _, item := range kb.items {
		score := 0
		for _, k := range kb.index[item.Key] {
			if strings.Contains(q, k) {
				score += len([]rune(k))
			}
		}
		if score > bestScore {
			bestScore = score
			best = item
		}
	}
	if bestScore == 0 {
		return KBItem{}, false
	}
	return best, true
}

// wordPattern picks out runs of Latin letters, kana, and kanji.
var wordPattern = regexp.MustCompile(`[a-zA-Z\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]+`)

var stopWords = map[string]struct{}{
	"です": {}, "ます": {}, "か": {}, "の": {}, "を": {}, "に": {}, "で": {}, "と": {},
}

func extractKeywords(text string) []string {
	var out []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len([]rune(w)) < 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// synonyms maps a base word to paraphrases users write instead of it.
var synonyms = map[string][]string{
	"料金":    {"値段", "価格", "費用", "代金"},
	"予約":    {"予約する", "予約方法", "予約の仕方"},
	"時間":    {"営業時間", "開店時間", "閉店時間"},
	"駅":     {"最寄り駅"},
	"店":     {"お店", "サロン"},
	"名前":    {"店名"},
	"住所":    {"場所", "所在地"},
	"電話":    {"電話番号", "連絡先"},
	"駐車場":   {"パーキング", "駐車"},
	"休み":    {"定休日", "休業日"},
	"キャンセル": {"キャンセル料", "取消", "取り消し"},
	"支払い":   {"支払", "支払方法", "決済"},
	"方法":    {"仕方", "やり方", "手順"},
}

func expandSynonyms(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	var out []string
	add := func(w string) {
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	for _, k := range keywords {
		add(k)
		for base, list := range synonyms {
			if strings.Contains(k, base) {
				add(base)
				for _, s := range list {
					add(s)
				}
			}
		}
	}
	return out
}
