package route

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/chatdeck/chatdeck/internal/db"
	"github.com/chatdeck/chatdeck/internal/models"
	"github.com/chatdeck/chatdeck/internal/notify"
	"github.com/chatdeck/chatdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChatPath(t *testing.T) {
	tests := []struct {
		path   string
		wantID string
		wantOK bool
	}{
		{"/", "", false},
		{"/settings", "", false},
		{"/c/", "", false},
		{"/c/abc123", "abc123", true},
		{"/c/work-abc123", "abc123", true},
		{"/c/my-long-folder-abc123", "abc123", true},
		{"/c/abc123/extra", "", false},
		{"/c/work-", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id, ok := ParseChatPath(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

// memGateway is a minimal in-memory store.Gateway for resolver tests.
type memGateway struct {
	mu    sync.Mutex
	chats map[string]models.Chat
}

func newMemGateway(chats ...models.Chat) *memGateway {
	g := &memGateway{chats: make(map[string]models.Chat)}
	for _, c := range chats {
		g.chats[c.ID] = c
	}
	return g
}

func (g *memGateway) ListChats(ctx context.Context) ([]models.Chat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.Chat, 0, len(g.chats))
	for _, c := range g.chats {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (g *memGateway) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.chats[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := c.Clone()
	return &out, nil
}

func (g *memGateway) CreateChat(ctx context.Context, chat models.Chat) (*models.Chat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.chats[chat.ID] = chat.Clone()
	out := chat.Clone()
	return &out, nil
}

func (g *memGateway) UpdateChat(ctx context.Context, id string, chat models.Chat) (*models.Chat, error) {
	chat.ID = id
	return g.CreateChat(ctx, chat)
}

func (g *memGateway) DeleteChat(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.chats, id)
	return nil
}

func (g *memGateway) ListFolders(ctx context.Context) ([]models.Folder, error) {
	return []models.Folder{}, nil
}

func (g *memGateway) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	return nil, db.ErrNotFound
}

func (g *memGateway) CreateFolder(ctx context.Context, folder models.Folder) (*models.Folder, error) {
	out := folder.Clone()
	return &out, nil
}

func (g *memGateway) UpdateFolder(ctx context.Context, id string, folder models.Folder) (*models.Folder, error) {
	out := folder.Clone()
	return &out, nil
}

func (g *memGateway) DeleteFolder(ctx context.Context, id string) error { return nil }

type pathRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (p *pathRecorder) Navigate(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
}

func (p *pathRecorder) all() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.paths))
	copy(out, p.paths)
	return out
}

func newTestResolver(gw store.Gateway) (*Resolver, *store.ConversationStore, *pathRecorder, *notify.Recorder) {
	conv := store.NewConversationStore(store.ConversationDeps{Gateway: gw})
	nav := &pathRecorder{}
	rec := &notify.Recorder{}
	return NewResolver(conv, nav, rec, nil, nil), conv, nav, rec
}

func TestResolveHomeClearsSelection(t *testing.T) {
	gw := newMemGateway(models.Chat{ID: "abc", Title: "A"})
	r, conv, _, _ := newTestResolver(gw)
	require.NoError(t, conv.Load(context.Background()))
	require.True(t, conv.SelectChat("abc"))

	require.NoError(t, r.Resolve(context.Background(), "/"))
	assert.Empty(t, conv.CurrentID())
}

func TestResolveSelectsLocalChat(t *testing.T) {
	gw := newMemGateway(models.Chat{ID: "abc", Title: "A"})
	r, conv, _, _ := newTestResolver(gw)
	require.NoError(t, conv.Load(context.Background()))

	require.NoError(t, r.Resolve(context.Background(), "/c/abc"))
	assert.Equal(t, "abc", conv.CurrentID())
}

func TestResolveFolderScopedPath(t *testing.T) {
	gw := newMemGateway(models.Chat{ID: "abc", Title: "A", FolderID: "folder-1", FolderSlug: "work"})
	r, conv, _, _ := newTestResolver(gw)
	require.NoError(t, conv.Load(context.Background()))

	require.NoError(t, r.Resolve(context.Background(), "/c/work-abc"))
	assert.Equal(t, "abc", conv.CurrentID())
}

func TestResolveFetchesUnknownChatAfterLoad(t *testing.T) {
	gw := newMemGateway()
	r, conv, _, _ := newTestResolver(gw)
	require.NoError(t, conv.Load(context.Background()))

	// the chat appears remotely after the bulk load
	_, err := gw.CreateChat(context.Background(), models.Chat{ID: "late", Title: "Late"})
	require.NoError(t, err)

	require.NoError(t, r.Resolve(context.Background(), "/c/late"))
	assert.Equal(t, "late", conv.CurrentID())
	assert.Len(t, conv.Chats(), 1, "fetched chat inserted locally")
}

func TestResolveDefersUntilLoaded(t *testing.T) {
	gw := newMemGateway(models.Chat{ID: "early", Title: "Early"})
	r, conv, nav, rec := newTestResolver(gw)

	// no Load yet: resolution must not point-fetch
	require.NoError(t, r.Resolve(context.Background(), "/c/early"))
	assert.Empty(t, conv.CurrentID())
	assert.Empty(t, conv.Chats())
	assert.Empty(t, nav.all())
	assert.Empty(t, rec.Errors())
}

func TestResolveUnknownChatNotifiesAndGoesHome(t *testing.T) {
	gw := newMemGateway()
	r, conv, nav, rec := newTestResolver(gw)
	require.NoError(t, conv.Load(context.Background()))

	err := r.Resolve(context.Background(), "/c/ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Empty(t, conv.CurrentID())
	assert.Equal(t, []string{"/"}, nav.all())
	assert.Contains(t, rec.Errors(), "Chat not found")
}

type activeRecorder struct {
	mu   sync.Mutex
	last string
}

func (a *activeRecorder) SetActivePath(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = path
}

func (a *activeRecorder) lastPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

func TestResolveForwardsPathToHighlighter(t *testing.T) {
	gw := newMemGateway()
	conv := store.NewConversationStore(store.ConversationDeps{Gateway: gw})
	require.NoError(t, conv.Load(context.Background()))
	active := &activeRecorder{}
	r := NewResolver(conv, nil, nil, active, nil)

	require.NoError(t, r.Resolve(context.Background(), "/"))
	assert.Equal(t, "/", active.lastPath())
}
