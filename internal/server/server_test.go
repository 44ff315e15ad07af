package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chatdeck/chatdeck/internal/bus"
	"github.com/chatdeck/chatdeck/internal/db"
	"github.com/chatdeck/chatdeck/internal/metrics"
	"github.com/chatdeck/chatdeck/internal/models"
	"github.com/chatdeck/chatdeck/internal/server"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger creates a logger that writes to stderr for test visibility.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// memGateway is an in-memory store.Gateway with the db client's contracts.
type memGateway struct {
	mu      sync.Mutex
	chats   map[string]models.Chat
	folders map[string]models.Folder
}

func newMemGateway() *memGateway {
	return &memGateway{
		chats:   make(map[string]models.Chat),
		folders: make(map[string]models.Folder),
	}
}

func (g *memGateway) ListChats(ctx context.Context) ([]models.Chat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.Chat, 0, len(g.chats))
	for _, c := range g.chats {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (g *memGateway) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.chats[id]
	if !ok {
		return nil, fmt.Errorf("get chat %q: %w", id, db.ErrNotFound)
	}
	out := c.Clone()
	return &out, nil
}

func (g *memGateway) CreateChat(ctx context.Context, chat models.Chat) (*models.Chat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}
	chat.UpdatedAt = time.Now()
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
	if _, ok := g.chats[id]; !ok {
		return fmt.Errorf("delete chat %q: %w", id, db.ErrNotFound)
	}
	delete(g.chats, id)
	return nil
}

func (g *memGateway) ListFolders(ctx context.Context) ([]models.Folder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.Folder, 0, len(g.folders))
	for _, f := range g.folders {
		out = append(out, f.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (g *memGateway) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f, ok := g.folders[id]
	if !ok {
		return nil, fmt.Errorf("get folder %q: %w", id, db.ErrNotFound)
	}
	out := f.Clone()
	return &out, nil
}

func (g *memGateway) CreateFolder(ctx context.Context, folder models.Folder) (*models.Folder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now()
	}
	folder.UpdatedAt = time.Now()
	g.folders[folder.ID] = folder.Clone()
	out := folder.Clone()
	return &out, nil
}

func (g *memGateway) UpdateFolder(ctx context.Context, id string, folder models.Folder) (*models.Folder, error) {
	folder.ID = id
	return g.CreateFolder(ctx, folder)
}

func (g *memGateway) DeleteFolder(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.folders[id]; !ok {
		return fmt.Errorf("delete folder %q: %w", id, db.ErrNotFound)
	}
	delete(g.folders, id)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memGateway, *bus.Bus) {
	t.Helper()
	gw := newMemGateway()
	b := bus.New()
	srv := server.New(gw, b, ":0", testLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, gw, b
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func TestChatLifecycle(t *testing.T) {
	ts, _, _ := newTestServer(t)

	// create
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/chats", models.Chat{Title: "First"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Chat
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.ID, "server assigns an id when none given")
	assert.Equal(t, "First", created.Title)

	// list
	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/chats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chats []models.Chat
	require.NoError(t, json.Unmarshal(body, &chats))
	require.Len(t, chats, 1)

	// get
	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/chats/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.Chat
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, created.ID, got.ID)

	// update
	got.Title = "Renamed"
	resp, body = doJSON(t, http.MethodPut, ts.URL+"/api/chats/"+created.ID, got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Chat
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "Renamed", updated.Title)

	// delete
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/chats/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/chats/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetChatNotFound(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/chats/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "not found")
}

func TestPutMissingChatInserts(t *testing.T) {
	ts, gw, _ := newTestServer(t)

	chat := models.Chat{Title: "Deep link"}
	resp, body := doJSON(t, http.MethodPut, ts.URL+"/api/chats/fresh1", chat)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "missing id falls back to insert")

	var saved models.Chat
	require.NoError(t, json.Unmarshal(body, &saved))
	assert.Equal(t, "fresh1", saved.ID)

	_, err := gw.GetChat(context.Background(), "fresh1")
	assert.NoError(t, err)
}

func TestCreateChatRejectsBadPayload(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/chats", "application/json", strings.NewReader("{broken"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFolderLifecycle(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/folders", models.Folder{Title: "Work"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Folder
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Contains(t, created.ID, "folder-")

	created.Items = []models.FolderItem{{ID: "chat1", Title: "Inside", URL: "/c/work-chat1"}}
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/api/folders/"+created.ID, created)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/folders/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.Folder
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Items, 1)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/folders/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateFolderRequiresTitle(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/folders", models.Folder{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "title required")
}

func TestStatsCountRequestsByOperation(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/chats", models.Chat{Title: "First"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/chats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/folders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap metrics.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, int64(1), snap.Operations[metrics.OpChatWrite].Count)
	assert.Equal(t, int64(1), snap.Operations[metrics.OpChatRead].Count)
	assert.Equal(t, int64(1), snap.Operations[metrics.OpFolderRead].Count)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestWebsocketReceivesRefreshOnMutation(t *testing.T) {
	ts, _, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// give the handler a moment to subscribe before mutating
	time.Sleep(50 * time.Millisecond)

	// any API mutation pushes a refresh event to subscribers
	apiResp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/chats", models.Chat{Title: "Ping"})
	require.Equal(t, http.StatusCreated, apiResp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event struct {
		Type string `json:"type"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "refresh", event.Type)
}

func TestWebsocketForwardsBusSignals(t *testing.T) {
	ts, _, b := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// give the handler a moment to subscribe before publishing
	time.Sleep(50 * time.Millisecond)
	b.Publish()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event struct {
		Type string `json:"type"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "refresh", event.Type)
}
