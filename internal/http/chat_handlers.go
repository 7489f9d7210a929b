package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hussain2580/school-mangment/internal/model"
)

type chatSendRequest struct {
	ChatID string              `json:"chatId"`
	Text   string              `json:"text"`
	Sender string              `json:"sender"`
	Avatar string              `json:"avatar"`
	Voice  *model.VoicePayload `json:"voice"`
	File   *model.FilePayload  `json:"file"`
}

func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	var req chatSendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.ChatID) == "" || strings.TrimSpace(req.Sender) == "" {
		writeError(w, http.StatusBadRequest, "Missing chatId or sender")
		return
	}

	now := time.Now()
	msg := model.ChatMessage{
		Sender:    req.Sender,
		Avatar:    req.Avatar,
		Text:      req.Text,
		Voice:     req.Voice,
		File:      req.File,
		Timestamp: now.Format("03:04 PM"),
		CreatedAt: now.UTC(),
	}

	stored, err := s.chat.Append(r.Context(), req.ChatID, msg)
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Message sent successfully",
		"data":    stored,
	})
}

func (s *Server) handleChatMessages(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatId")

	messages, err := s.chat.Messages(r.Context(), chatID)
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": messages,
	})
}

type chatSummary struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
	Members int    `json:"members,omitempty"`
}

// handleChatList returns the static room directory the frontend shows per
// role. Clients poll the messages endpoint for each room on an interval;
// there is no push channel.
func (s *Server) handleChatList(w http.ResponseWriter, r *http.Request) {
	var chats []chatSummary
	switch chi.URLParam(r, "userRole") {
	case "student":
		chats = []chatSummary{
			{ID: "group-class10a", Type: "group", Name: "Class 10-A", Avatar: "📚", Members: 25},
			{ID: "teacher-msg-1", Type: "personal", Name: "Mr. Ahmed (Math Teacher)", Avatar: "👨‍🏫"},
		}
	case "teacher":
		chats = []chatSummary{
			{ID: "group-class10a", Type: "group", Name: "Class 10-A", Avatar: "📚", Members: 25},
			{ID: "group-class10b", Type: "group", Name: "Class 10-B", Avatar: "📚", Members: 28},
			{ID: "admin-msg", Type: "personal", Name: "Admin", Avatar: "⚙️"},
		}
	case "admin":
		chats = []chatSummary{
			{ID: "group-class10a", Type: "group", Name: "Class 10-A", Avatar: "📚", Members: 25},
			{ID: "group-class10b", Type: "group", Name: "Class 10-B", Avatar: "📚", Members: 28},
			{ID: "group-teachers", Type: "group", Name: "Teachers Group", Avatar: "👨‍🏫", Members: 15},
		}
	default:
		chats = []chatSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"chats":   chats,
	})
}
