package faq

import (
	"context"
	"fmt"
	"strings"

	"salonai/utils"

	"go.uber.org/zap"
)

const msgUnknownAnswer = "申し訳ございませんが、その質問については分かりません。スタッフにお繋ぎします。"

// FAQService answers general questions about the salon from the knowledge
// base. Facts come only from the KB; the language model rephrases, it never
// invents.
type FAQService interface {
	Answer(ctx context.Context, question string) string
}

// DefaultFAQService is the production implementation. The generator is
// optional; without one, answers come straight from the matched KB value.
type DefaultFAQService struct {
	KB        *KnowledgeBase
	Generator TextGenerator
}

func NewDefaultFAQService(kb *KnowledgeBase, generator TextGenerator) *DefaultFAQService {
	return &DefaultFAQService{KB: kb, Generator: generator}
}

// Answer returns the fallback text when no KB fact matches. A generator
// failure degrades to the plain KB value rather than surfacing an error.
func (s *DefaultFAQService) Answer(ctx context.Context, question string) string {
	item, ok := s.KB.Search(question)
	if !ok {
		return msgUnknownAnswer
	}

	if s.Generator == nil {
		return directAnswer(item)
	}

	reply, err := s.Generator.GenerateContent(ctx, composePrompt(item, question))
	if err != nil {
		utils.GetLogger().Warn("FAQ text generation failed, using KB value directly",
			zap.String("kbKey", item.Key), zap.Error(err))
		return directAnswer(item)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return directAnswer(item)
	}
	return reply
}

func directAnswer(item KBItem) string {
	switch item.Key {
	case "SALON_NAME":
		return fmt.Sprintf("店名は「%s」です。", item.Value)
	case "ADDRESS":
		return fmt.Sprintf("住所は「%s」です。", item.Value)
	case "PHONE":
		return fmt.Sprintf("お電話は「%s」までお願いいたします。", item.Value)
	case "ACCESS_STATION":
		return fmt.Sprintf("最寄りは「%s」です。", item.Value)
	case "BUSINESS_HOURS_WEEKDAY", "BUSINESS_HOURS_WEEKEND":
		return fmt.Sprintf("営業時間は「%s」です。", item.Value)
	case "HOLIDAY":
		return fmt.Sprintf("定休日は「%s」です。", item.Value)
	case "PARKING":
		return fmt.Sprintf("駐車場は「%s」です。", item.Value)
	case "PAYMENTS":
		return fmt.Sprintf("支払い方法は「%s」です。", item.Value)
	case "CANCEL_POLICY":
		return fmt.Sprintf("キャンセル規定は「%s」です。", item.Value)
	case "ALLERGY_CARE", "PREGNANCY_CARE":
		return fmt.Sprintf("安全のため、%s。詳細はスタッフにお繋ぎします。", item.Value)
	default:
		return fmt.Sprintf("%sです。", item.Value)
	}
}

func composePrompt(item KBItem, question string) string {
	return fmt.Sprintf(`あなたは美容室の親切なスタッフです。以下の事実だけを根拠に、お客様の質問に日本語で簡潔に答えてください。
事実に含まれない情報は答えず、分からない場合は「分かりません」と答えてください。

事実（%s）: %s
補足: %s

質問: %s`, item.Key, item.Value, item.Note, question)
}
