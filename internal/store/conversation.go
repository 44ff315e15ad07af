package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chatdeck/chatdeck/internal/assistant"
	"github.com/chatdeck/chatdeck/internal/bus"
	"github.com/chatdeck/chatdeck/internal/catalog"
	"github.com/chatdeck/chatdeck/internal/ident"
	"github.com/chatdeck/chatdeck/internal/models"
	"github.com/chatdeck/chatdeck/internal/notify"
)

// ConversationStore owns the chat collection and the current-chat
// selection. It is the only writer of chat content. Local state is guarded
// by a mutex; gateway calls run outside the lock, so two concurrent
// appends to the same chat can interleave their upserts and the second
// write wins. That lost-update window is accepted, matching the
// single-page-app behavior this store reproduces.
type ConversationStore struct {
	gw        Gateway
	nav       Navigator
	notifier  notify.Notifier
	bus       *bus.Bus
	responder *assistant.Responder
	registry  *catalog.Registry
	logger    *slog.Logger

	mu        sync.Mutex
	chats     []models.Chat
	currentID string
	loaded    bool
	pending   map[string]map[string]struct{}
}

// ConversationDeps bundles the collaborators a ConversationStore needs.
// Nil fields get working defaults so tests can wire only what they check.
type ConversationDeps struct {
	Gateway   Gateway
	Navigator Navigator
	Notifier  notify.Notifier
	Bus       *bus.Bus
	Responder *assistant.Responder
	Registry  *catalog.Registry
	Logger    *slog.Logger
}

// NewConversationStore creates a store around the given collaborators.
func NewConversationStore(deps ConversationDeps) *ConversationStore {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Navigator == nil {
		deps.Navigator = NopNavigator
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Logger{Log: deps.Logger}
	}
	if deps.Bus == nil {
		deps.Bus = bus.New()
	}
	if deps.Responder == nil {
		deps.Responder = assistant.NewResponder(0, deps.Logger)
	}
	if deps.Registry == nil {
		deps.Registry = catalog.NewRegistry()
	}
	return &ConversationStore{
		gw:        deps.Gateway,
		nav:       deps.Navigator,
		notifier:  deps.Notifier,
		bus:       deps.Bus,
		responder: deps.Responder,
		registry:  deps.Registry,
		logger:    deps.Logger,
		pending:   make(map[string]map[string]struct{}),
	}
}

// Load performs the initial bulk fetch of the chat collection. It sets the
// loaded flag that gates fetch-on-miss in the route resolver.
func (s *ConversationStore) Load(ctx context.Context) error {
	chats, err := s.gw.ListChats(ctx)
	if err != nil {
		s.logger.Error("initial chat load failed", "error", err)
		s.notifier.Error("Failed to load chats")
		return fmt.Errorf("load chats: %w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	s.chats = chats
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Loaded reports whether the initial bulk fetch has completed.
func (s *ConversationStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Chats returns a copy of the chat collection, newest first.
func (s *ConversationStore) Chats() []models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Chat, len(s.chats))
	for i, c := range s.chats {
		out[i] = c.Clone()
	}
	return out
}

// Current returns a copy of the selected chat, or nil when none is
// selected.
func (s *ConversationStore) Current() *models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(s.currentID); idx >= 0 {
		c := s.chats[idx].Clone()
		return &c
	}
	return nil
}

// CurrentID returns the selected chat id, or "" when none is selected.
func (s *ConversationStore) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// ClearCurrent drops the current-chat selection.
func (s *ConversationStore) ClearCurrent() {
	s.mu.Lock()
	s.currentID = ""
	s.mu.Unlock()
}

// SelectChat selects a chat that is already present locally. Returns false
// when the id is unknown, leaving the selection unchanged.
func (s *ConversationStore) SelectChat(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return false
	}
	s.currentID = id
	return true
}

// FetchAndSelect point-fetches a chat that is not in local state, inserts
// it if still absent, and selects it. Used by the route resolver for deep
// links into chats the bulk load did not include.
func (s *ConversationStore) FetchAndSelect(ctx context.Context, id string) error {
	chat, err := s.gw.GetChat(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch chat %q: %w", id, err)
	}

	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.chats = append([]models.Chat{chat.Clone()}, s.chats...)
	}
	s.currentID = id
	s.mu.Unlock()
	return nil
}

// CreateChat builds an empty chat, persists it, and only then inserts it
// at the front of the local collection and selects it. Nothing is mutated
// locally when the create fails.
func (s *ConversationStore) CreateChat(ctx context.Context, folderID, folderSlug string) (string, error) {
	now := time.Now()
	chat := models.Chat{
		ID:         ident.NewChatID(),
		Title:      models.DefaultTitle,
		Messages:   []models.Message{},
		FolderID:   folderID,
		FolderSlug: folderSlug,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	saved, err := s.gw.CreateChat(ctx, chat)
	if err != nil {
		s.logger.Error("create chat failed", "error", err)
		s.notifier.Error("Failed to create chat")
		return "", fmt.Errorf("create chat: %w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	s.chats = append([]models.Chat{saved.Clone()}, s.chats...)
	s.currentID = saved.ID
	s.mu.Unlock()
	return saved.ID, nil
}

// AppendMessage adds a message to a chat. The local chat is updated
// optimistically before the upsert; on success the server's canonical
// record replaces it. On persistence failure the optimistic state stays
// until the next refresh corrects it; only a notification is raised.
//
// A user message appended while the title is still the default derives the
// chat title from its content. Assistant messages are stamped with the
// active sub-model id at the moment they are appended.
func (s *ConversationStore) AppendMessage(ctx context.Context, chatID, content string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("append message: role %q: %w", role, ErrValidation)
	}

	msg := models.Message{
		ID:        ident.NewMessageID(),
		Content:   content,
		Role:      role,
		Timestamp: time.Now(),
	}
	if role == models.RoleAssistant {
		msg.ModelID = s.registry.ActiveSubModel().ID
	}

	s.mu.Lock()
	idx := s.indexOf(chatID)
	if idx < 0 {
		s.mu.Unlock()
		s.notifier.Error("Chat not found")
		return fmt.Errorf("append message: chat %q: %w", chatID, ErrNotFound)
	}
	chat := s.chats[idx].Clone()
	if chat.Title == models.DefaultTitle && role == models.RoleUser {
		chat.Title = models.DeriveTitle(content)
	}
	chat.Messages = append(chat.Messages, msg)
	chat.UpdatedAt = msg.Timestamp
	s.chats[idx] = chat
	s.mu.Unlock()

	saved, err := s.gw.UpdateChat(ctx, chatID, chat)
	if err != nil {
		s.logger.Error("persist message failed", "chat", chatID, "error", err)
		s.notifier.Error("Failed to save message")
		return fmt.Errorf("append message: %w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	if idx := s.indexOf(chatID); idx >= 0 {
		s.chats[idx] = saved.Clone()
	}
	s.mu.Unlock()
	return nil
}

// SendMessage is the composite user-facing send action. With no chat
// selected it creates a chat seeded with the message in a single combined
// create, selects it, and navigates to its URL. With a chat selected it
// appends the message to it. Both branches then schedule the simulated
// assistant reply, which runs after the responder's delay without blocking
// the caller.
func (s *ConversationStore) SendMessage(ctx context.Context, content string, opts assistant.SendOptions) error {
	s.mu.Lock()
	chatID := s.currentID
	s.mu.Unlock()

	if chatID == "" {
		now := time.Now()
		chat := models.Chat{
			ID:    ident.NewChatID(),
			Title: models.DeriveTitle(content),
			Messages: []models.Message{{
				ID:        ident.NewMessageID(),
				Content:   content,
				Role:      models.RoleUser,
				Timestamp: now,
			}},
			CreatedAt: now,
			UpdatedAt: now,
		}

		saved, err := s.gw.CreateChat(ctx, chat)
		if err != nil {
			s.logger.Error("send: create chat failed", "error", err)
			s.notifier.Error("Failed to send message")
			return fmt.Errorf("send message: %w: %v", ErrPersistence, err)
		}

		s.mu.Lock()
		s.chats = append([]models.Chat{saved.Clone()}, s.chats...)
		s.currentID = saved.ID
		s.mu.Unlock()

		s.nav.Navigate(saved.URL())
		s.scheduleReply(ctx, saved.ID, content, opts, true)
		return nil
	}

	if err := s.AppendMessage(ctx, chatID, content, models.RoleUser); err != nil {
		return err
	}
	s.scheduleReply(ctx, chatID, content, opts, false)
	return nil
}

// scheduleReply queues the simulated assistant turn. The delivery checks
// chat existence when it fires, so a chat deleted during the delay just
// drops the reply. The refresh signal is published after the delivery
// attempt whether or not persistence succeeded.
func (s *ConversationStore) scheduleReply(ctx context.Context, chatID, content string, opts assistant.SendOptions, greet bool) {
	idReady := make(chan string, 1)
	taskID := s.responder.Schedule(ctx, func(taskCtx context.Context) {
		defer s.untrackReply(chatID, <-idReady)

		reply := assistant.ComposeReply(content, opts, greet)
		if err := s.AppendMessage(taskCtx, chatID, reply, models.RoleAssistant); err != nil {
			s.logger.Warn("assistant reply not delivered", "chat", chatID, "error", err)
		}
		s.bus.Publish()
	})
	s.trackReply(chatID, taskID)
	idReady <- taskID
}

func (s *ConversationStore) trackReply(chatID, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[chatID] == nil {
		s.pending[chatID] = make(map[string]struct{})
	}
	s.pending[chatID][taskID] = struct{}{}
}

func (s *ConversationStore) untrackReply(chatID, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending[chatID], taskID)
	if len(s.pending[chatID]) == 0 {
		delete(s.pending, chatID)
	}
}

// UpdateChatTitle renames a chat and persists the change. Empty titles are
// rejected.
func (s *ConversationStore) UpdateChatTitle(ctx context.Context, chatID, title string) error {
	if title == "" {
		s.notifier.Error("Title cannot be empty")
		return fmt.Errorf("update title: %w: empty title", ErrValidation)
	}

	s.mu.Lock()
	idx := s.indexOf(chatID)
	if idx < 0 {
		s.mu.Unlock()
		s.notifier.Error("Chat not found")
		return fmt.Errorf("update title: chat %q: %w", chatID, ErrNotFound)
	}
	chat := s.chats[idx].Clone()
	chat.Title = title
	s.chats[idx] = chat
	s.mu.Unlock()

	saved, err := s.gw.UpdateChat(ctx, chatID, chat)
	if err != nil {
		s.logger.Error("persist title failed", "chat", chatID, "error", err)
		s.notifier.Error("Failed to rename chat")
		return fmt.Errorf("update title: %w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	if idx := s.indexOf(chatID); idx >= 0 {
		s.chats[idx] = saved.Clone()
	}
	s.mu.Unlock()
	return nil
}

// DeleteChat removes a chat. Pending assistant replies for it are
// cancelled. If the deleted chat was selected, the selection clears and
// navigation returns to the home view.
func (s *ConversationStore) DeleteChat(ctx context.Context, chatID string) error {
	s.mu.Lock()
	if s.indexOf(chatID) < 0 {
		s.mu.Unlock()
		s.notifier.Error("Chat not found")
		return fmt.Errorf("delete chat: chat %q: %w", chatID, ErrNotFound)
	}
	s.mu.Unlock()

	if err := s.gw.DeleteChat(ctx, chatID); err != nil {
		s.logger.Error("delete chat failed", "chat", chatID, "error", err)
		s.notifier.Error("Failed to delete chat")
		return fmt.Errorf("delete chat: %w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	if idx := s.indexOf(chatID); idx >= 0 {
		s.chats = append(s.chats[:idx], s.chats[idx+1:]...)
	}
	wasCurrent := s.currentID == chatID
	if wasCurrent {
		s.currentID = ""
	}
	tasks := s.pending[chatID]
	delete(s.pending, chatID)
	s.mu.Unlock()

	for taskID := range tasks {
		s.responder.Cancel(taskID)
	}
	if wasCurrent {
		s.nav.Navigate("/")
	}
	return nil
}

// indexOf returns the position of a chat in the local collection, or -1.
// Callers must hold s.mu.
func (s *ConversationStore) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.chats {
		if s.chats[i].ID == id {
			return i
		}
	}
	return -1
}
