package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chatdeck/chatdeck/internal/db"
	"github.com/chatdeck/chatdeck/internal/models"
)

// fakeGateway is an in-memory Gateway with the same contracts as the
// SurrealDB client: create is an upsert, update falls back to insert, get
// and delete report misses with db.ErrNotFound, and every write stamps
// updatedAt like the server does.
type fakeGateway struct {
	mu      sync.Mutex
	chats   map[string]models.Chat
	folders map[string]models.Folder

	failChatWrites   error
	failFolderWrites error
	failLists        error

	chatUpdates int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		chats:   make(map[string]models.Chat),
		folders: make(map[string]models.Folder),
	}
}

func (g *fakeGateway) ListChats(ctx context.Context) ([]models.Chat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failLists != nil {
		return nil, g.failLists
	}
	out := make([]models.Chat, 0, len(g.chats))
	for _, c := range g.chats {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (g *fakeGateway) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.chats[id]
	if !ok {
		return nil, fmt.Errorf("get chat %q: %w", id, db.ErrNotFound)
	}
	out := c.Clone()
	return &out, nil
}

func (g *fakeGateway) CreateChat(ctx context.Context, chat models.Chat) (*models.Chat, error) {
	return g.storeChat(chat)
}

func (g *fakeGateway) UpdateChat(ctx context.Context, id string, chat models.Chat) (*models.Chat, error) {
	chat.ID = id
	g.mu.Lock()
	g.chatUpdates++
	g.mu.Unlock()
	return g.storeChat(chat)
}

func (g *fakeGateway) storeChat(chat models.Chat) (*models.Chat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failChatWrites != nil {
		return nil, g.failChatWrites
	}
	if existing, ok := g.chats[chat.ID]; ok {
		chat.CreatedAt = existing.CreatedAt
	} else if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}
	chat.UpdatedAt = time.Now()
	g.chats[chat.ID] = chat.Clone()
	out := chat.Clone()
	return &out, nil
}

func (g *fakeGateway) DeleteChat(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failChatWrites != nil {
		return g.failChatWrites
	}
	if _, ok := g.chats[id]; !ok {
		return fmt.Errorf("delete chat %q: %w", id, db.ErrNotFound)
	}
	delete(g.chats, id)
	return nil
}

func (g *fakeGateway) ListFolders(ctx context.Context) ([]models.Folder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failLists != nil {
		return nil, g.failLists
	}
	out := make([]models.Folder, 0, len(g.folders))
	for _, f := range g.folders {
		out = append(out, f.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (g *fakeGateway) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f, ok := g.folders[id]
	if !ok {
		return nil, fmt.Errorf("get folder %q: %w", id, db.ErrNotFound)
	}
	out := f.Clone()
	return &out, nil
}

func (g *fakeGateway) CreateFolder(ctx context.Context, folder models.Folder) (*models.Folder, error) {
	return g.storeFolder(folder)
}

func (g *fakeGateway) UpdateFolder(ctx context.Context, id string, folder models.Folder) (*models.Folder, error) {
	folder.ID = id
	return g.storeFolder(folder)
}

func (g *fakeGateway) storeFolder(folder models.Folder) (*models.Folder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failFolderWrites != nil {
		return nil, g.failFolderWrites
	}
	if existing, ok := g.folders[folder.ID]; ok {
		folder.CreatedAt = existing.CreatedAt
	} else if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now()
	}
	folder.UpdatedAt = time.Now()
	// active flags are view state, never stored
	folder.IsActive = false
	for i := range folder.Items {
		folder.Items[i].IsActive = false
	}
	g.folders[folder.ID] = folder.Clone()
	out := folder.Clone()
	return &out, nil
}

func (g *fakeGateway) DeleteFolder(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failFolderWrites != nil {
		return g.failFolderWrites
	}
	if _, ok := g.folders[id]; !ok {
		return fmt.Errorf("delete folder %q: %w", id, db.ErrNotFound)
	}
	delete(g.folders, id)
	return nil
}

func (g *fakeGateway) chatUpdateCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.chatUpdates
}

func (g *fakeGateway) storedChat(id string) (models.Chat, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.chats[id]
	return c.Clone(), ok
}
