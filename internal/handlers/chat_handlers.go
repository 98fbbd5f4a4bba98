package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborline/storefront-api/internal/models"
)

//
// --- Chat Handlers ---
//

// PostChatInput is the JSON body for POST /v1/chat/messages
type PostChatInput struct {
	Body string `json:"body" binding:"required"`
}

// PostChatMessage is the handler for POST /v1/chat/messages
// Stores the customer message. When the AI assistant is configured, it
// also generates and stores a reply, returned in the same response.
func (h *Handlers) PostChatMessage(c *gin.Context) {
	var input PostChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	owner, ok := resolveCartOwner(c, true)
	if !ok {
		internalError(c, "Failed to establish a chat session")
		return
	}

	result, err := h.DB.Exec(`
		INSERT INTO chat_messages (user_id, session_id, sender, body)
		VALUES (?, ?, ?, ?)`,
		owner.userID, owner.sessionID, models.ChatSenderCustomer, input.Body)
	if err != nil {
		internalError(c, "Failed to save message")
		return
	}
	messageID, _ := result.LastInsertId()

	resp := gin.H{"message": "Message sent", "messageId": messageID}
	if owner.sessionID != nil {
		resp["sessionId"] = *owner.sessionID
	}

	// Assistant reply is best effort. A model failure must not lose the
	// customer's message.
	if h.AIService != nil {
		reply, err := h.AIService.GenerateResponse(c.Request.Context(), input.Body)
		if err != nil {
			log.Printf("assistant reply failed: %v", err)
		} else {
			if _, err := h.DB.Exec(`
				INSERT INTO chat_messages (user_id, session_id, sender, body)
				VALUES (?, ?, ?, ?)`,
				owner.userID, owner.sessionID, models.ChatSenderAssistant, reply); err != nil {
				log.Printf("failed to save assistant reply: %v", err)
			}
			resp["reply"] = reply
		}
	}

	c.JSON(http.StatusCreated, resp)
}

// AskAssistant is the handler for POST /v1/chat/assistant
// Asks the shopping assistant directly. The question and the answer are
// both recorded in the caller's conversation.
func (h *Handlers) AskAssistant(c *gin.Context) {
	if h.AIService == nil {
		respondError(c, http.StatusServiceUnavailable, CodeInternal,
			"The shopping assistant is not available")
		return
	}

	var input PostChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	owner, ok := resolveCartOwner(c, true)
	if !ok {
		internalError(c, "Failed to establish a chat session")
		return
	}

	if _, err := h.DB.Exec(`
		INSERT INTO chat_messages (user_id, session_id, sender, body)
		VALUES (?, ?, ?, ?)`,
		owner.userID, owner.sessionID, models.ChatSenderCustomer, input.Body); err != nil {
		internalError(c, "Failed to save question")
		return
	}

	reply, err := h.AIService.GenerateResponse(c.Request.Context(), input.Body)
	if err != nil {
		log.Printf("assistant reply failed: %v", err)
		internalError(c, "The assistant could not answer")
		return
	}

	if _, err := h.DB.Exec(`
		INSERT INTO chat_messages (user_id, session_id, sender, body)
		VALUES (?, ?, ?, ?)`,
		owner.userID, owner.sessionID, models.ChatSenderAssistant, reply); err != nil {
		log.Printf("failed to save assistant reply: %v", err)
	}

	resp := gin.H{"reply": reply}
	if owner.sessionID != nil {
		resp["sessionId"] = *owner.sessionID
	}
	c.JSON(http.StatusOK, resp)
}

// GetChatMessages is the handler for GET /v1/chat/messages
// Returns the caller's conversation, oldest first.
func (h *Handlers) GetChatMessages(c *gin.Context) {
	owner, ok := resolveCartOwner(c, false)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"messages": []models.ChatMessage{}})
		return
	}

	clause, arg := owner.clause()
	rows, err := h.DB.Query(`
		SELECT id, user_id, session_id, sender, body, created_at
		FROM chat_messages
		WHERE `+clause+`
		ORDER BY created_at ASC, id ASC`, arg)
	if err != nil {
		internalError(c, "Failed to fetch messages")
		return
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.SessionID, &m.Sender, &m.Body,
			&m.CreatedAt); err != nil {
			internalError(c, "Failed to scan message")
			return
		}
		messages = append(messages, m)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// GetAllConversations is the handler for GET /v1/admin/chat (admin only)
// Lists recent messages across all conversations for the support view.
func (h *Handlers) GetAllConversations(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, user_id, session_id, sender, body, created_at
		FROM chat_messages
		ORDER BY created_at DESC, id DESC
		LIMIT 500`)
	if err != nil {
		internalError(c, "Failed to fetch messages")
		return
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.SessionID, &m.Sender, &m.Body,
			&m.CreatedAt); err != nil {
			internalError(c, "Failed to scan message")
			return
		}
		messages = append(messages, m)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostStaffReplyInput is the JSON body for the admin reply endpoint.
type PostStaffReplyInput struct {
	UserID    *int64  `json:"userId"`
	SessionID *string `json:"sessionId"`
	Body      string  `json:"body" binding:"required"`
}

// PostStaffReply is the handler for POST /v1/admin/chat/reply (admin only)
// Staff answer into a specific conversation, addressed by user or session.
func (h *Handlers) PostStaffReply(c *gin.Context) {
	var input PostStaffReplyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if input.UserID == nil && input.SessionID == nil {
		badRequest(c, "Either userId or sessionId is required")
		return
	}

	result, err := h.DB.Exec(`
		INSERT INTO chat_messages (user_id, session_id, sender, body)
		VALUES (?, ?, ?, ?)`,
		input.UserID, input.SessionID, models.ChatSenderStaff, input.Body)
	if err != nil {
		internalError(c, "Failed to save reply")
		return
	}
	messageID, _ := result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{"message": "Reply sent", "messageId": messageID})
}
