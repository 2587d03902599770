// controllers/chat_controller.go
package controllers

import (
	"slices"

	"restaurant/pkg/resp"
	"restaurant/services"
	"restaurant/utils"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	Service *services.ChatService
	Ledger  *services.TokenLedger
}

func NewChatController(s *services.ChatService, ledger *services.TokenLedger) *ChatController {
	return &ChatController{Service: s, Ledger: ledger}
}

type SendMessageReq struct {
	Message string `json:"message"`
	BotType string `json:"botType"`
}

// POST /chat/messages
// Returns as soon as the message is stored; the bot reply follows over
// /ws/chat or the next poll.
func (cc *ChatController) Send(c *gin.Context) {
	var req SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request")
		return
	}

	msg, err := cc.Service.Send(c.Request.Context(), utils.CurrentUserID(c), req.Message, req.BotType)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Created(c, msg)
}

// GET /chat/messages?botType=
// Oldest first, last ten messages.
func (cc *ChatController) List(c *gin.Context) {
	msgs, err := cc.Service.ListRecent(c.Request.Context(), utils.CurrentUserID(c), c.Query("botType"))
	if err != nil {
		respondError(c, err)
		return
	}
	slices.Reverse(msgs)
	resp.OK(c, msgs)
}

// GET /chat/tokens
func (cc *ChatController) Tokens(c *gin.Context) {
	n, err := cc.Ledger.Available(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, gin.H{"tokens": n, "dailyTokens": services.DailyTokens})
}
