// Package db provides SurrealDB query functions for the chat collection.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/chatdeck/chatdeck/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// chatRecord mirrors models.Chat with the SurrealDB record id type.
type chatRecord struct {
	ID         surrealmodels.RecordID `json:"id"`
	Title      string                 `json:"title"`
	Messages   []models.Message       `json:"messages"`
	FolderID   string                 `json:"folderId,omitempty"`
	FolderSlug string                 `json:"folderSlug,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

// recordIDString extracts the string id from a SurrealDB RecordID.
func recordIDString(id surrealmodels.RecordID) (string, error) {
	s, ok := id.ID.(string)
	if !ok {
		return "", fmt.Errorf("unexpected record id type: %T (expected string)", id.ID)
	}
	return s, nil
}

func (r chatRecord) toChat() (models.Chat, error) {
	id, err := recordIDString(r.ID)
	if err != nil {
		return models.Chat{}, err
	}
	messages := r.Messages
	if messages == nil {
		messages = []models.Message{}
	}
	return models.Chat{
		ID:         id,
		Title:      r.Title,
		Messages:   messages,
		FolderID:   r.FolderID,
		FolderSlug: r.FolderSlug,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

// optString maps an empty string to NONE for option<string> fields.
func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func chatVars(chat models.Chat) map[string]any {
	messages := chat.Messages
	if messages == nil {
		messages = []models.Message{}
	}
	createdAt := chat.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return map[string]any{
		"id":         chat.ID,
		"title":      chat.Title,
		"messages":   messages,
		"folderId":   optString(chat.FolderID),
		"folderSlug": optString(chat.FolderSlug),
		"createdAt":  createdAt,
	}
}

// upsertChatSQL writes the full chat record. UPSERT gives the collection
// its contract: create with an existing id replaces the record, and update
// of a missing id falls back to insert. createdAt survives replacement;
// updatedAt is stamped on every write.
const upsertChatSQL = `
	UPSERT type::record("chat", $id) SET
		title = $title,
		messages = $messages,
		folderId = $folderId,
		folderSlug = $folderSlug,
		createdAt = IF createdAt THEN createdAt ELSE $createdAt END,
		updatedAt = time::now()
	RETURN AFTER
`

// ListChats returns all chats sorted by creation time, newest first.
func (c *Client) ListChats(ctx context.Context) ([]models.Chat, error) {
	results, err := surrealdb.Query[[]chatRecord](ctx, c.db, `
		SELECT * FROM chat ORDER BY createdAt DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Chat{}, nil
	}

	records := (*results)[0].Result
	chats := make([]models.Chat, 0, len(records))
	for _, rec := range records {
		chat, err := rec.toChat()
		if err != nil {
			return nil, fmt.Errorf("list chats: %w", err)
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

// GetChat retrieves a chat by id. Returns ErrNotFound if absent.
func (c *Client) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	results, err := surrealdb.Query[[]chatRecord](ctx, c.db, `
		SELECT * FROM type::record("chat", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("get chat %q: %w", id, ErrNotFound)
	}

	chat, err := (*results)[0].Result[0].toChat()
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return &chat, nil
}

// CreateChat stores a chat under its application-assigned id and returns
// the stored record. An existing record with the same id is replaced.
func (c *Client) CreateChat(ctx context.Context, chat models.Chat) (*models.Chat, error) {
	results, err := surrealdb.Query[[]chatRecord](ctx, c.db, upsertChatSQL, chatVars(chat))
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create chat: no result returned")
	}

	saved, err := (*results)[0].Result[0].toChat()
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return &saved, nil
}

// UpdateChat replaces the stored record for id with the given chat and
// returns the canonical stored version. A missing record is inserted.
func (c *Client) UpdateChat(ctx context.Context, id string, chat models.Chat) (*models.Chat, error) {
	chat.ID = id
	results, err := surrealdb.Query[[]chatRecord](ctx, c.db, upsertChatSQL, chatVars(chat))
	if err != nil {
		return nil, fmt.Errorf("update chat: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("update chat: no result returned")
	}

	saved, err := (*results)[0].Result[0].toChat()
	if err != nil {
		return nil, fmt.Errorf("update chat: %w", err)
	}
	return &saved, nil
}

// DeleteChat removes a chat by id. Returns ErrNotFound when no record
// existed.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	results, err := surrealdb.Query[[]chatRecord](ctx, c.db, `
		DELETE type::record("chat", $id) RETURN BEFORE
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete chat: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return fmt.Errorf("delete chat %q: %w", id, ErrNotFound)
	}
	return nil
}
