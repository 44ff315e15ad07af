package store

import (
	"context"

	"github.com/chatdeck/chatdeck/internal/models"
)

// Gateway is the persistence surface the stores depend on. *db.Client
// satisfies it; tests substitute an in-memory fake. Create behaves as
// upsert (an existing id is replaced, never a conflict) and Update falls
// back to insert for a missing id. Get and Delete report missing records
// with db.ErrNotFound.
type Gateway interface {
	ListChats(ctx context.Context) ([]models.Chat, error)
	GetChat(ctx context.Context, id string) (*models.Chat, error)
	CreateChat(ctx context.Context, chat models.Chat) (*models.Chat, error)
	UpdateChat(ctx context.Context, id string, chat models.Chat) (*models.Chat, error)
	DeleteChat(ctx context.Context, id string) error

	ListFolders(ctx context.Context) ([]models.Folder, error)
	GetFolder(ctx context.Context, id string) (*models.Folder, error)
	CreateFolder(ctx context.Context, folder models.Folder) (*models.Folder, error)
	UpdateFolder(ctx context.Context, id string, folder models.Folder) (*models.Folder, error)
	DeleteFolder(ctx context.Context, id string) error
}

// Navigator receives navigation requests from the stores: selecting a
// freshly created chat pushes its URL, deleting the selected chat goes
// home. The web UI maps this to history pushes; the CLI ignores it.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// NopNavigator discards navigation requests.
var NopNavigator Navigator = NavigatorFunc(func(string) {})
