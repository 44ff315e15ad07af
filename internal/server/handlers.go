package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chatdeck/chatdeck/internal/db"
	"github.com/chatdeck/chatdeck/internal/ident"
	"github.com/chatdeck/chatdeck/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeGatewayError maps gateway failures onto HTTP statuses.
func (s *Server) writeGatewayError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	s.logger.Error("gateway call failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := s.gw.ListChats(r.Context())
	if err != nil {
		s.writeGatewayError(w, err, "chats")
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var chat models.Chat
	if err := json.NewDecoder(r.Body).Decode(&chat); err != nil {
		writeError(w, http.StatusBadRequest, "invalid chat payload")
		return
	}
	if chat.ID == "" {
		chat.ID = ident.NewChatID()
	}
	if chat.Title == "" {
		chat.Title = models.DefaultTitle
	}

	saved, err := s.gw.CreateChat(r.Context(), chat)
	if err != nil {
		s.writeGatewayError(w, err, "chat")
		return
	}
	s.bus.Publish()
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := s.gw.GetChat(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeGatewayError(w, err, "chat")
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// handleUpdateChat upserts the full record. A PUT to an id with no record
// inserts it and answers 201, mirroring the update's insert fallback.
func (s *Server) handleUpdateChat(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var chat models.Chat
	if err := json.NewDecoder(r.Body).Decode(&chat); err != nil {
		writeError(w, http.StatusBadRequest, "invalid chat payload")
		return
	}

	status := http.StatusOK
	if _, err := s.gw.GetChat(r.Context(), id); errors.Is(err, db.ErrNotFound) {
		status = http.StatusCreated
	}

	saved, err := s.gw.UpdateChat(r.Context(), id, chat)
	if err != nil {
		s.writeGatewayError(w, err, "chat")
		return
	}
	s.bus.Publish()
	writeJSON(w, status, saved)
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	if err := s.gw.DeleteChat(r.Context(), r.PathValue("id")); err != nil {
		s.writeGatewayError(w, err, "chat")
		return
	}
	s.bus.Publish()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.gw.ListFolders(r.Context())
	if err != nil {
		s.writeGatewayError(w, err, "folders")
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var folder models.Folder
	if err := json.NewDecoder(r.Body).Decode(&folder); err != nil {
		writeError(w, http.StatusBadRequest, "invalid folder payload")
		return
	}
	if folder.Title == "" {
		writeError(w, http.StatusBadRequest, "folder title required")
		return
	}
	if folder.ID == "" {
		folder.ID = ident.NewFolderID()
	}

	saved, err := s.gw.CreateFolder(r.Context(), folder)
	if err != nil {
		s.writeGatewayError(w, err, "folder")
		return
	}
	s.bus.Publish()
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := s.gw.GetFolder(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeGatewayError(w, err, "folder")
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

func (s *Server) handleUpdateFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var folder models.Folder
	if err := json.NewDecoder(r.Body).Decode(&folder); err != nil {
		writeError(w, http.StatusBadRequest, "invalid folder payload")
		return
	}

	status := http.StatusOK
	if _, err := s.gw.GetFolder(r.Context(), id); errors.Is(err, db.ErrNotFound) {
		status = http.StatusCreated
	}

	saved, err := s.gw.UpdateFolder(r.Context(), id, folder)
	if err != nil {
		s.writeGatewayError(w, err, "folder")
		return
	}
	s.bus.Publish()
	writeJSON(w, status, saved)
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := s.gw.DeleteFolder(r.Context(), r.PathValue("id")); err != nil {
		s.writeGatewayError(w, err, "folder")
		return
	}
	s.bus.Publish()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.GetSnapshot())
}
