package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chatdeck/chatdeck/internal/ident"
	"github.com/chatdeck/chatdeck/internal/models"
	"github.com/chatdeck/chatdeck/internal/notify"
)

// OrganizationStore owns the folder collection and the ungrouped-chats
// sidebar projection. It treats chat content as read-only: it consumes
// only id, title, folderId, and updatedAt. Chats and folders duplicate the
// membership association (Chat.folderId vs Folder.items); every mutating
// operation here keeps both sides in sync with two independent gateway
// calls and no atomicity between them.
type OrganizationStore struct {
	gw       Gateway
	notifier notify.Notifier
	logger   *slog.Logger

	mu         sync.Mutex
	folders    []models.Folder
	ungrouped  []models.SidebarChat
	activePath string
}

// NewOrganizationStore creates a store around the gateway. A nil notifier
// falls back to logging.
func NewOrganizationStore(gw Gateway, notifier notify.Notifier, logger *slog.Logger) *OrganizationStore {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Logger{Log: logger}
	}
	return &OrganizationStore{
		gw:       gw,
		notifier: notifier,
		logger:   logger,
	}
}

// Watch refreshes the store on every refresh signal until ctx is done.
// Runs in its own goroutine; the signal channel comes from bus.Subscribe.
func (s *OrganizationStore) Watch(ctx context.Context, signals <-chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				if err := s.Refresh(ctx); err != nil {
					s.logger.Warn("signal-driven refresh failed", "error", err)
				}
			}
		}
	}()
}

// Refresh refetches the folder and chat collections and recomputes the
// ungrouped projection, replacing all local state. Runs on start and on
// each refresh signal; calling it twice with no intervening mutation
// yields identical state.
func (s *OrganizationStore) Refresh(ctx context.Context) error {
	folders, err := s.gw.ListFolders(ctx)
	if err != nil {
		s.logger.Error("refresh: list folders failed", "error", err)
		s.notifier.Error("Failed to load folders")
		return fmt.Errorf("refresh: %w: %v", ErrPersistence, err)
	}

	chats, err := s.gw.ListChats(ctx)
	if err != nil {
		s.logger.Error("refresh: list chats failed", "error", err)
		s.notifier.Error("Failed to load chats")
		return fmt.Errorf("refresh: %w: %v", ErrPersistence, err)
	}

	ungrouped := make([]models.SidebarChat, 0, len(chats))
	for _, chat := range chats {
		if chat.FolderID != "" {
			continue
		}
		ungrouped = append(ungrouped, models.SidebarChat{
			ID:        chat.ID,
			Name:      chat.Title,
			URL:       chat.URL(),
			UpdatedAt: chat.UpdatedAt,
		})
	}

	s.mu.Lock()
	s.folders = folders
	s.ungrouped = ungrouped
	s.applyActivePathLocked()
	s.mu.Unlock()
	return nil
}

// Folders returns a copy of the folder collection.
func (s *OrganizationStore) Folders() []models.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Folder, len(s.folders))
	for i, f := range s.folders {
		out[i] = f.Clone()
	}
	return out
}

// Ungrouped returns a copy of the ungrouped-chats projection.
func (s *OrganizationStore) Ungrouped() []models.SidebarChat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SidebarChat, len(s.ungrouped))
	copy(out, s.ungrouped)
	return out
}

// AddChat creates a new empty chat outside any folder and prepends it to
// the ungrouped projection.
func (s *OrganizationStore) AddChat(ctx context.Context, title string) (string, error) {
	if title == "" {
		title = models.DefaultTitle
	}

	now := time.Now()
	chat := models.Chat{
		ID:        ident.NewChatID(),
		Title:     title,
		Messages:  []models.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, err := s.gw.CreateChat(ctx, chat)
	if err != nil {
		s.logger.Error("add chat failed", "error", err)
		s.notifier.Error("Failed to create chat")
		return "", fmt.Errorf("add chat: %w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	s.ungrouped = append([]models.SidebarChat{{
		ID:        saved.ID,
		Name:      saved.Title,
		URL:       saved.URL(),
		UpdatedAt: saved.UpdatedAt,
	}}, s.ungrouped...)
	s.applyActivePathLocked()
	s.mu.Unlock()

	s.notifier.Success("Chat created")
	return saved.ID, nil
}

// AddFolder creates a new empty folder. Empty names are rejected.
func (s *OrganizationStore) AddFolder(ctx context.Context, title string) (string, error) {
	if title == "" {
		s.notifier.Error("Folder name cannot be empty")
		return "", fmt.Errorf("add folder: %w: empty name", ErrValidation)
	}

	now := time.Now()
	folder := models.Folder{
		ID:        ident.NewFolderID(),
		Title:     title,
		URL:       "#",
		Items:     []models.FolderItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, err := s.gw.CreateFolder(ctx, folder)
	if err != nil {
		s.logger.Error("add folder failed", "error", err)
		s.notifier.Error("Failed to create folder")
		return "", fmt.Errorf("add folder: %w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	s.folders = append([]models.Folder{saved.Clone()}, s.folders...)
	s.mu.Unlock()

	s.notifier.Success("Folder created")
	return saved.ID, nil
}

// AddChatToFolder creates a new chat directly inside a folder: the chat
// record carries the folder association and the folder gains a matching
// item. Two gateway calls, no atomicity between them.
func (s *OrganizationStore) AddChatToFolder(ctx context.Context, folderID, title string) (string, error) {
	if title == "" {
		title = models.DefaultTitle
	}

	s.mu.Lock()
	idx := s.folderIndex(folderID)
	if idx < 0 {
		s.mu.Unlock()
		s.notifier.Error("Folder not found")
		return "", fmt.Errorf("add chat to folder: folder %q: %w", folderID, ErrNotFound)
	}
	folder := s.folders[idx].Clone()
	s.mu.Unlock()

	now := time.Now()
	chat := models.Chat{
		ID:         ident.NewChatID(),
		Title:      title,
		Messages:   []models.Message{},
		FolderID:   folder.ID,
		FolderSlug: models.Slugify(folder.Title),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	savedChat, err := s.gw.CreateChat(ctx, chat)
	if err != nil {
		s.logger.Error("add chat to folder failed", "folder", folderID, "error", err)
		s.notifier.Error("Failed to create chat")
		return "", fmt.Errorf("add chat to folder: %w: %v", ErrPersistence, err)
	}

	folder.Items = append(folder.Items, models.FolderItem{
		ID:    savedChat.ID,
		Title: savedChat.Title,
		URL:   models.FolderChatURL(folder.Title, savedChat.ID),
	})

	savedFolder, err := s.gw.UpdateFolder(ctx, folder.ID, folder)
	if err != nil {
		s.logger.Error("add chat to folder: folder update failed", "folder", folderID, "error", err)
		s.notifier.Error("Failed to update folder")
		return "", fmt.Errorf("add chat to folder: %w: %v", ErrPersistence, err)
	}

	s.replaceFolder(savedFolder)
	s.notifier.Success("Chat created")
	return savedChat.ID, nil
}

// DeleteChat removes an ungrouped chat.
func (s *OrganizationStore) DeleteChat(ctx context.Context, chatID string) error {
	s.mu.Lock()
	if s.ungroupedIndex(chatID) < 0 {
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
	if idx := s.ungroupedIndex(chatID); idx >= 0 {
		s.ungrouped = append(s.ungrouped[:idx], s.ungrouped[idx+1:]...)
	}
	s.mu.Unlock()

	s.notifier.Success("Chat deleted")
	return nil
}

// DeleteFolder removes a folder. Member chats keep their folderId pointing
// at the deleted folder; nothing cascade-clears the association, so those
// chats stay out of the ungrouped list until they are moved or updated.
func (s *OrganizationStore) DeleteFolder(ctx context.Context, folderID string) error {
	s.mu.Lock()
	if s.folderIndex(folderID) < 0 {
		s.mu.Unlock()
		s.notifier.Error("Folder not found")
		return fmt.Errorf("delete folder: folder %q: %w", folderID, ErrNotFound)
	}
	s.mu.Unlock()

	if err := s.gw.DeleteFolder(ctx, folderID); err != nil {
		s.logger.Error("delete folder failed", "folder", folderID, "error", err)
		s.notifier.Error("Failed to delete folder")
		return fmt.Errorf("delete folder: %w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	if idx := s.folderIndex(folderID); idx >= 0 {
		s.folders = append(s.folders[:idx], s.folders[idx+1:]...)
	}
	s.mu.Unlock()

	s.notifier.Success("Folder deleted")
	return nil
}

// DeleteChatFromFolder deletes a chat that lives in a folder: the chat
// record is removed and the folder loses its item.
func (s *OrganizationStore) DeleteChatFromFolder(ctx context.Context, folderID, chatID string) error {
	s.mu.Lock()
	idx := s.folderIndex(folderID)
	if idx < 0 {
		s.mu.Unlock()
		s.notifier.Error("Folder not found")
		return fmt.Errorf("delete chat from folder: folder %q: %w", folderID, ErrNotFound)
	}
	folder := s.folders[idx].Clone()
	s.mu.Unlock()

	itemIdx := itemIndex(folder.Items, chatID)
	if itemIdx < 0 {
		s.notifier.Error("Chat not found")
		return fmt.Errorf("delete chat from folder: chat %q: %w", chatID, ErrNotFound)
	}

	if err := s.gw.DeleteChat(ctx, chatID); err != nil {
		s.logger.Error("delete chat from folder failed", "chat", chatID, "error", err)
		s.notifier.Error("Failed to delete chat")
		return fmt.Errorf("delete chat from folder: %w: %v", ErrPersistence, err)
	}

	folder.Items = append(folder.Items[:itemIdx], folder.Items[itemIdx+1:]...)
	savedFolder, err := s.gw.UpdateFolder(ctx, folder.ID, folder)
	if err != nil {
		s.logger.Error("delete chat from folder: folder update failed", "folder", folderID, "error", err)
		s.notifier.Error("Failed to update folder")
		return fmt.Errorf("delete chat from folder: %w: %v", ErrPersistence, err)
	}

	s.replaceFolder(savedFolder)
	s.notifier.Success("Chat deleted")
	return nil
}

// RenameChat renames an ungrouped chat. The full chat record is fetched so
// the upsert does not wipe its messages.
func (s *OrganizationStore) RenameChat(ctx context.Context, chatID, name string) error {
	if name == "" {
		s.notifier.Error("Chat name cannot be empty")
		return fmt.Errorf("rename chat: %w: empty name", ErrValidation)
	}

	s.mu.Lock()
	if s.ungroupedIndex(chatID) < 0 {
		s.mu.Unlock()
		s.notifier.Error("Chat not found")
		return fmt.Errorf("rename chat: chat %q: %w", chatID, ErrNotFound)
	}
	s.mu.Unlock()

	saved, err := s.persistChatTitle(ctx, chatID, name)
	if err != nil {
		s.notifier.Error("Failed to rename chat")
		return fmt.Errorf("rename chat: %w", err)
	}

	s.mu.Lock()
	if idx := s.ungroupedIndex(chatID); idx >= 0 {
		s.ungrouped[idx].Name = saved.Title
		s.ungrouped[idx].UpdatedAt = saved.UpdatedAt
	}
	s.mu.Unlock()

	s.notifier.Success("Chat renamed")
	return nil
}

// RenameFolder renames a folder. Member item URLs embed the folder slug
// and are rebuilt from the new title.
func (s *OrganizationStore) RenameFolder(ctx context.Context, folderID, name string) error {
	if name == "" {
		s.notifier.Error("Folder name cannot be empty")
		return fmt.Errorf("rename folder: %w: empty name", ErrValidation)
	}

	s.mu.Lock()
	idx := s.folderIndex(folderID)
	if idx < 0 {
		s.mu.Unlock()
		s.notifier.Error("Folder not found")
		return fmt.Errorf("rename folder: folder %q: %w", folderID, ErrNotFound)
	}
	folder := s.folders[idx].Clone()
	s.mu.Unlock()

	folder.Title = name
	for i := range folder.Items {
		folder.Items[i].URL = models.FolderChatURL(name, folder.Items[i].ID)
	}

	saved, err := s.gw.UpdateFolder(ctx, folder.ID, folder)
	if err != nil {
		s.logger.Error("rename folder failed", "folder", folderID, "error", err)
		s.notifier.Error("Failed to rename folder")
		return fmt.Errorf("rename folder: %w: %v", ErrPersistence, err)
	}

	s.replaceFolder(saved)
	s.notifier.Success("Folder renamed")
	return nil
}

// MoveChatToFolder moves an ungrouped chat into a folder: the folder gains
// an item, the chat record gains folderId and folderSlug, and the chat
// leaves the ungrouped projection. The two persistence calls are logically
// one transaction but are issued independently; a failure between them
// leaves the records inconsistent until the next refresh.
func (s *OrganizationStore) MoveChatToFolder(ctx context.Context, chatID, folderID string) error {
	s.mu.Lock()
	chatIdx := s.ungroupedIndex(chatID)
	folderIdx := s.folderIndex(folderID)
	if chatIdx < 0 {
		s.mu.Unlock()
		s.notifier.Error("Chat not found")
		return fmt.Errorf("move chat: chat %q: %w", chatID, ErrNotFound)
	}
	if folderIdx < 0 {
		s.mu.Unlock()
		s.notifier.Error("Folder not found")
		return fmt.Errorf("move chat: folder %q: %w", folderID, ErrNotFound)
	}
	chatName := s.ungrouped[chatIdx].Name
	folder := s.folders[folderIdx].Clone()
	s.mu.Unlock()

	folder.Items = append(folder.Items, models.FolderItem{
		ID:    chatID,
		Title: chatName,
		URL:   models.FolderChatURL(folder.Title, chatID),
	})

	savedFolder, err := s.gw.UpdateFolder(ctx, folder.ID, folder)
	if err != nil {
		s.logger.Error("move chat: folder update failed", "folder", folderID, "error", err)
		s.notifier.Error("Failed to move chat")
		return fmt.Errorf("move chat: %w: %v", ErrPersistence, err)
	}

	chat, err := s.gw.GetChat(ctx, chatID)
	if err != nil {
		s.logger.Error("move chat: fetch failed", "chat", chatID, "error", err)
		s.notifier.Error("Failed to move chat")
		return fmt.Errorf("move chat: %w: %v", ErrPersistence, err)
	}
	chat.FolderID = folder.ID
	chat.FolderSlug = models.Slugify(folder.Title)
	if _, err := s.gw.UpdateChat(ctx, chatID, *chat); err != nil {
		s.logger.Error("move chat: chat update failed", "chat", chatID, "error", err)
		s.notifier.Error("Failed to move chat")
		return fmt.Errorf("move chat: %w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	if idx := s.ungroupedIndex(chatID); idx >= 0 {
		s.ungrouped = append(s.ungrouped[:idx], s.ungrouped[idx+1:]...)
	}
	s.mu.Unlock()
	s.replaceFolder(savedFolder)

	s.notifier.Success("Chat moved to folder")
	return nil
}

// RenameChatInFolder renames a chat that lives in a folder, updating both
// the folder item copy and the authoritative chat record.
func (s *OrganizationStore) RenameChatInFolder(ctx context.Context, folderID, chatID, name string) error {
	if name == "" {
		s.notifier.Error("Chat name cannot be empty")
		return fmt.Errorf("rename chat in folder: %w: empty name", ErrValidation)
	}

	s.mu.Lock()
	idx := s.folderIndex(folderID)
	if idx < 0 {
		s.mu.Unlock()
		s.notifier.Error("Folder not found")
		return fmt.Errorf("rename chat in folder: folder %q: %w", folderID, ErrNotFound)
	}
	folder := s.folders[idx].Clone()
	s.mu.Unlock()

	itemIdx := itemIndex(folder.Items, chatID)
	if itemIdx < 0 {
		s.notifier.Error("Chat not found")
		return fmt.Errorf("rename chat in folder: chat %q: %w", chatID, ErrNotFound)
	}
	folder.Items[itemIdx].Title = name

	savedFolder, err := s.gw.UpdateFolder(ctx, folder.ID, folder)
	if err != nil {
		s.logger.Error("rename chat in folder: folder update failed", "folder", folderID, "error", err)
		s.notifier.Error("Failed to rename chat")
		return fmt.Errorf("rename chat in folder: %w: %v", ErrPersistence, err)
	}

	if _, err := s.persistChatTitle(ctx, chatID, name); err != nil {
		s.notifier.Error("Failed to rename chat")
		return fmt.Errorf("rename chat in folder: %w", err)
	}

	s.replaceFolder(savedFolder)
	s.notifier.Success("Chat renamed")
	return nil
}

// SetActivePath recomputes the active flags for the current view path.
// Pure derivation: an ungrouped chat is active when the path is its chat
// URL, a folder item when the path is its folder-scoped URL built from the
// folder's current title, and a folder when any of its items is. Never
// triggers persistence.
func (s *OrganizationStore) SetActivePath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activePath = path
	s.applyActivePathLocked()
}

// applyActivePathLocked recomputes IsActive flags. Callers must hold s.mu.
func (s *OrganizationStore) applyActivePathLocked() {
	for i := range s.ungrouped {
		s.ungrouped[i].IsActive = s.activePath == models.ChatURL(s.ungrouped[i].ID)
	}
	for i := range s.folders {
		folder := &s.folders[i]
		folderActive := false
		for j := range folder.Items {
			active := s.activePath == models.FolderChatURL(folder.Title, folder.Items[j].ID)
			folder.Items[j].IsActive = active
			folderActive = folderActive || active
		}
		folder.IsActive = folderActive
	}
}

// persistChatTitle fetches the full chat record, renames it, and upserts
// it back, returning the canonical stored record.
func (s *OrganizationStore) persistChatTitle(ctx context.Context, chatID, name string) (*models.Chat, error) {
	chat, err := s.gw.GetChat(ctx, chatID)
	if err != nil {
		s.logger.Error("rename: fetch chat failed", "chat", chatID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	chat.Title = name
	saved, err := s.gw.UpdateChat(ctx, chatID, *chat)
	if err != nil {
		s.logger.Error("rename: persist chat failed", "chat", chatID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return saved, nil
}

// replaceFolder swaps the stored folder matching saved.ID, keeping active
// flags consistent.
func (s *OrganizationStore) replaceFolder(saved *models.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.folderIndex(saved.ID); idx >= 0 {
		s.folders[idx] = saved.Clone()
	}
	s.applyActivePathLocked()
}

// folderIndex returns the position of a folder, or -1. Callers must hold
// s.mu.
func (s *OrganizationStore) folderIndex(id string) int {
	for i := range s.folders {
		if s.folders[i].ID == id {
			return i
		}
	}
	return -1
}

// ungroupedIndex returns the position of an ungrouped chat, or -1.
// Callers must hold s.mu.
func (s *OrganizationStore) ungroupedIndex(id string) int {
	for i := range s.ungrouped {
		if s.ungrouped[i].ID == id {
			return i
		}
	}
	return -1
}

func itemIndex(items []models.FolderItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
