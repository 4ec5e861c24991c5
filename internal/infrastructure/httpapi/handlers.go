package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Action               domain.ActionKind     `json:"action"`
	EventDetails         *domain.EventPayload  `json:"eventDetails,omitempty"`
	ResponseMessage      string                `json:"responseMessage"`
	RequiresConfirmation bool                  `json:"requiresConfirmation"`
	Pending              bool                  `json:"pending,omitempty"`
	Outcome              *domain.ActionOutcome `json:"outcome,omitempty"`
}

func sessionKey(c *gin.Context) string {
	return c.GetString("session_id")
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewInputError("invalid request body"))
		return
	}

	result, err := s.chat.HandleTurn(c.Request.Context(), sessionKey(c), req.Message)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		Action:               result.Intent.Action,
		EventDetails:         result.Intent.EventDetails,
		ResponseMessage:      result.Intent.ResponseMessage,
		RequiresConfirmation: result.Intent.RequiresConfirmation,
		Pending:              result.Pending,
		Outcome:              result.Outcome,
	})
}

func (s *Server) handleChatConfirm(c *gin.Context) {
	outcome, err := s.chat.Approve(c.Request.Context(), sessionKey(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleChatReject(c *gin.Context) {
	s.chat.Reject(sessionKey(c))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleChatClear(c *gin.Context) {
	s.chat.ClearHistory(sessionKey(c))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleHistoryStats(c *gin.Context) {
	stats := s.chat.HistoryStats(sessionKey(c))
	c.JSON(http.StatusOK, gin.H{
		"totalConversations": stats.TotalConversations,
		"oldestTimestamp":    stats.OldestTimestamp,
		"newestTimestamp":    stats.NewestTimestamp,
	})
}

func (s *Server) handleListEvents(c *gin.Context) {
	window := domain.EventWindow{}
	if raw := c.Query("timeMin"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(c, domain.NewInputError("timeMin must be RFC 3339"))
			return
		}
		window.TimeMin = parsed
	}
	if raw := c.Query("timeMax"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(c, domain.NewInputError("timeMax must be RFC 3339"))
			return
		}
		window.TimeMax = parsed
	}

	events, err := s.calendar.ListEvents(c.Request.Context(), window)
	if err != nil {
		writeError(c, err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var payload domain.EventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, domain.NewInputError("invalid event payload"))
		return
	}
	if payload.Summary == "" || payload.Start == nil || payload.End == nil {
		writeError(c, domain.NewInputError("summary, start and end are required"))
		return
	}

	created, err := s.calendar.InsertEvent(c.Request.Context(), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (s *Server) handlePatchEvent(c *gin.Context) {
	var payload domain.EventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, domain.NewInputError("invalid event payload"))
		return
	}

	updated, err := s.calendar.PatchEvent(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	if err := s.calendar.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// writeError maps the domain error taxonomy onto HTTP statuses. Every error
// body is {"error": message}.
func writeError(c *gin.Context, err error) {
	var inputErr *domain.InputError
	switch {
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Reason})
	case errors.Is(err, domain.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, domain.ErrNoPendingAction):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
