package db

import (
	"context"
	"fmt"
	"time"

	"github.com/chatdeck/chatdeck/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// folderRecord mirrors models.Folder with the SurrealDB record id type.
// isActive is a view-layer derivation and is never persisted.
type folderRecord struct {
	ID        surrealmodels.RecordID `json:"id"`
	Title     string                 `json:"title"`
	URL       string                 `json:"url"`
	Items     []models.FolderItem    `json:"items"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

func (r folderRecord) toFolder() (models.Folder, error) {
	id, err := recordIDString(r.ID)
	if err != nil {
		return models.Folder{}, err
	}
	items := r.Items
	if items == nil {
		items = []models.FolderItem{}
	}
	return models.Folder{
		ID:        id,
		Title:     r.Title,
		URL:       r.URL,
		Items:     items,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func folderVars(folder models.Folder) map[string]any {
	items := folder.Items
	if items == nil {
		items = []models.FolderItem{}
	}
	url := folder.URL
	if url == "" {
		url = "#"
	}
	createdAt := folder.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	// Strip the derived active flags before persisting
	persisted := make([]models.FolderItem, len(items))
	for i, item := range items {
		item.IsActive = false
		persisted[i] = item
	}
	return map[string]any{
		"id":        folder.ID,
		"title":     folder.Title,
		"url":       url,
		"items":     persisted,
		"createdAt": createdAt,
	}
}

const upsertFolderSQL = `
	UPSERT type::record("folder", $id) SET
		title = $title,
		url = $url,
		items = $items,
		createdAt = IF createdAt THEN createdAt ELSE $createdAt END,
		updatedAt = time::now()
	RETURN AFTER
`

// ListFolders returns all folders sorted by creation time, newest first.
func (c *Client) ListFolders(ctx context.Context) ([]models.Folder, error) {
	results, err := surrealdb.Query[[]folderRecord](ctx, c.db, `
		SELECT * FROM folder ORDER BY createdAt DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Folder{}, nil
	}

	records := (*results)[0].Result
	folders := make([]models.Folder, 0, len(records))
	for _, rec := range records {
		folder, err := rec.toFolder()
		if err != nil {
			return nil, fmt.Errorf("list folders: %w", err)
		}
		folders = append(folders, folder)
	}
	return folders, nil
}

// GetFolder retrieves a folder by id. Returns ErrNotFound if absent.
func (c *Client) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	results, err := surrealdb.Query[[]folderRecord](ctx, c.db, `
		SELECT * FROM type::record("folder", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("get folder %q: %w", id, ErrNotFound)
	}

	folder, err := (*results)[0].Result[0].toFolder()
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return &folder, nil
}

// CreateFolder stores a folder under its application-assigned id and
// returns the stored record. An existing record with the same id is
// replaced.
func (c *Client) CreateFolder(ctx context.Context, folder models.Folder) (*models.Folder, error) {
	results, err := surrealdb.Query[[]folderRecord](ctx, c.db, upsertFolderSQL, folderVars(folder))
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create folder: no result returned")
	}

	saved, err := (*results)[0].Result[0].toFolder()
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return &saved, nil
}

// UpdateFolder replaces the stored record for id with the given folder and
// returns the canonical stored version. A missing record is inserted.
func (c *Client) UpdateFolder(ctx context.Context, id string, folder models.Folder) (*models.Folder, error) {
	folder.ID = id
	results, err := surrealdb.Query[[]folderRecord](ctx, c.db, upsertFolderSQL, folderVars(folder))
	if err != nil {
		return nil, fmt.Errorf("update folder: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("update folder: no result returned")
	}

	saved, err := (*results)[0].Result[0].toFolder()
	if err != nil {
		return nil, fmt.Errorf("update folder: %w", err)
	}
	return &saved, nil
}

// DeleteFolder removes a folder by id. Returns ErrNotFound when no record
// existed. Member chats keep their folderId; the association dangles until
// the chat is moved or updated (matching the sidebar's historical
// behavior).
func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	results, err := surrealdb.Query[[]folderRecord](ctx, c.db, `
		DELETE type::record("folder", $id) RETURN BEFORE
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete folder: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return fmt.Errorf("delete folder %q: %w", id, ErrNotFound)
	}
	return nil
}
