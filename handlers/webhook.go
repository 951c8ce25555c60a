package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"salonai/models"
	"salonai/services/audit"
	"salonai/services/conversation"
	"salonai/services/faq"
	"salonai/services/line"
	"salonai/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// webhookBody mirrors the LINE webhook envelope, reduced to the fields the
// bot consumes.
type webhookBody struct {
	Events []webhookEvent `json:"events"`
}

type webhookEvent struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     struct {
		UserID string `json:"userId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
}

// WebhookHandler receives LINE webhook deliveries. Message routing order:
// ping check, conversation flows, FAQ.
type WebhookHandler struct {
	Engine        *conversation.Engine
	FAQ           faq.FAQService
	Line          *line.Client
	Audit         audit.Recorder
	ChannelSecret string
}

func NewWebhookHandler(engine *conversation.Engine, faqSvc faq.FAQService, lineClient *line.Client,
	recorder audit.Recorder, channelSecret string) *WebhookHandler {
	return &WebhookHandler{
		Engine:        engine,
		FAQ:           faqSvc,
		Line:          lineClient,
		Audit:         recorder,
		ChannelSecret: channelSecret,
	}
}

// ValidateSignature checks the X-Line-Signature header: the base64-encoded
// HMAC-SHA256 of the raw request body, keyed by the channel secret.
func ValidateSignature(channelSecret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Callback handles POST /api/callback.
func (h *WebhookHandler) Callback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	signature := c.GetHeader("X-Line-Signature")
	if !ValidateSignature(h.ChannelSecret, body, signature) {
		utils.GetLogger().Warn("webhook signature validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	var payload webhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
		return
	}

	for _, event := range payload.Events {
		if event.Type != "message" || event.Message.Type != "text" {
			continue
		}
		h.handleTextMessage(c.Request.Context(), models.InboundMessage{
			UserID:     event.Source.UserID,
			ReplyToken: event.ReplyToken,
			Text:       event.Message.Text,
		})
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WebhookHandler) handleTextMessage(ctx context.Context, msg models.InboundMessage) {
	started := time.Now()
	actionType := "message"
	userName := h.displayName(ctx, msg.UserID)

	reply, errMsg := h.composeReply(ctx, msg, userName, &actionType)
	if reply != "" {
		if err := h.Line.Reply(ctx, msg.ReplyToken, reply); err != nil {
			utils.GetLogger().Error("LINE reply failed",
				zap.String("userID", msg.UserID), zap.Error(err))
		}
	}

	entry := models.AuditEntry{
		UserID:       msg.UserID,
		UserName:     userName,
		ActionType:   actionType,
		UserMessage:  msg.Text,
		BotResponse:  reply,
		ErrorMessage: errMsg,
		ProcessingMS: time.Since(started).Milliseconds(),
	}
	// Audit logging is off the reply path.
	go func() {
		auditCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		h.Audit.Record(auditCtx, entry)
	}()
}

func (h *WebhookHandler) composeReply(ctx context.Context, msg models.InboundMessage, userName string, actionType *string) (reply, errMsg string) {
	if msg.Text == "ping" {
		*actionType = "ping"
		return "pong", ""
	}

	flowReply, err := h.Engine.HandleMessage(ctx, msg.UserID, userName, msg.Text)
	if err != nil {
		utils.GetLogger().Error("conversation engine failed",
			zap.String("userID", msg.UserID), zap.Error(err))
		*actionType = "error"
		return "申し訳ございませんが、エラーが発生しました。", err.Error()
	}
	if flowReply != "" {
		*actionType = "reservation"
		return flowReply, ""
	}

	*actionType = "faq"
	return h.FAQ.Answer(ctx, msg.Text), ""
}

// displayName resolves the LINE profile name, falling back to a generic
// honorific. Lookup failures must never block a reply.
func (h *WebhookHandler) displayName(ctx context.Context, userID string) string {
	profile, err := h.Line.GetProfile(ctx, userID)
	if err != nil || profile.DisplayName == "" {
		return "お客様"
	}
	return profile.DisplayName
}
