package chat

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/modkit/internal/auth"
	"github.com/kbukum/modkit/internal/claude"
	"github.com/kbukum/modkit/internal/httpserver"
)

// Assistant is the part of the Claude service the chat routes use.
type Assistant interface {
	Complete(ctx context.Context, req claude.CompletionRequest) (*claude.CompletionResponse, error)
	Conversation(ctx context.Context, id, message string) (string, error)
	History(id string) []claude.Message
	ClearConversation(id string)
}

// ChatController serves the chat and conversation routes.
type ChatController struct {
	assistant Assistant
}

type chatRequest struct {
	Message   string `json:"message" binding:"required"`
	System    string `json:"system"`
	Model     string `json:"model"`
	MaxTokens int64  `json:"max_tokens" binding:"gte=0"`
}

type turnRequest struct {
	Message string `json:"message" binding:"required"`
}

type turnResponse struct {
	Reply   string `json:"reply"`
	History int    `json:"history"`
}

type estimateRequest struct {
	Text string `json:"text"`
}

// NewChatController registers the chat routes on srv. When verifier is not
// nil the routes require a bearer token.
func NewChatController(srv *httpserver.Server, assistant Assistant, verifier *auth.Verifier) *ChatController {
	c := &ChatController{assistant: assistant}

	g := srv.Engine().Group("")
	if verifier != nil {
		g.Use(verifier.Guard())
	}
	g.POST("/chat", c.Chat)
	g.POST("/tokens/estimate", c.EstimateTokens)
	g.GET("/conversations/:id", c.History)
	g.POST("/conversations/:id", c.Turn)
	g.DELETE("/conversations/:id", c.Clear)
	return c
}

// Chat answers a single message.
func (c *ChatController) Chat(ctx *gin.Context) {
	var req chatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpserver.RespondBadRequest(ctx, err.Error())
		return
	}

	reqCtx, cancel := httpserver.RequestContext(ctx)
	defer cancel()
	resp, err := c.assistant.Complete(reqCtx, claude.CompletionRequest{
		Messages:  []claude.Message{{Role: claude.RoleUser, Content: req.Message}},
		System:    req.System,
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		httpserver.RespondError(ctx, err)
		return
	}
	httpserver.RespondOK(ctx, resp)
}

// Turn adds a message to a conversation and returns the reply.
func (c *ChatController) Turn(ctx *gin.Context) {
	var req turnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpserver.RespondBadRequest(ctx, err.Error())
		return
	}

	id := ctx.Param("id")
	reqCtx, cancel := httpserver.RequestContext(ctx)
	defer cancel()
	reply, err := c.assistant.Conversation(reqCtx, id, req.Message)
	if err != nil {
		httpserver.RespondError(ctx, err)
		return
	}
	httpserver.RespondOK(ctx, turnResponse{Reply: reply, History: len(c.assistant.History(id))})
}

// History returns the stored turns of a conversation.
func (c *ChatController) History(ctx *gin.Context) {
	history := c.assistant.History(ctx.Param("id"))
	if history == nil {
		history = []claude.Message{}
	}
	httpserver.RespondOK(ctx, history)
}

// Clear drops a conversation.
func (c *ChatController) Clear(ctx *gin.Context) {
	c.assistant.ClearConversation(ctx.Param("id"))
	ctx.Status(http.StatusNoContent)
}

// EstimateTokens returns a rough token count for a text.
func (c *ChatController) EstimateTokens(ctx *gin.Context) {
	var req estimateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpserver.RespondBadRequest(ctx, err.Error())
		return
	}
	httpserver.RespondOK(ctx, gin.H{"tokens": claude.EstimateTokens(req.Text)})
}
