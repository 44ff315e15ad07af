// Package route maps view paths to store state: which chat a path refers
// to, and what happens when the path names a chat the local state has
// never seen.
package route

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chatdeck/chatdeck/internal/notify"
	"github.com/chatdeck/chatdeck/internal/store"
)

// ParseChatPath extracts the chat id from a view path. Chat paths look
// like /c/{chatId} or /c/{folderSlug}-{chatId}; since generated ids never
// contain hyphens, the id is always the last hyphen-separated token. The
// slug part carries no information for resolution, which is also how two
// folders whose titles slugify identically stay unambiguous. Returns
// ok=false for the home path and anything else that is not a chat path.
func ParseChatPath(path string) (string, bool) {
	rest, found := strings.CutPrefix(path, "/c/")
	if !found || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	if i := strings.LastIndex(rest, "-"); i >= 0 {
		rest = rest[i+1:]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

// Highlighter receives the current path for active-item derivation.
// *store.OrganizationStore satisfies it.
type Highlighter interface {
	SetActivePath(path string)
}

// Resolver turns navigation changes into conversation-store selection.
type Resolver struct {
	conv        *store.ConversationStore
	nav         store.Navigator
	notifier    notify.Notifier
	highlighter Highlighter
	logger      *slog.Logger
}

// NewResolver creates a resolver. The highlighter may be nil when no
// sidebar is attached.
func NewResolver(conv *store.ConversationStore, nav store.Navigator, notifier notify.Notifier, highlighter Highlighter, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if nav == nil {
		nav = store.NopNavigator
	}
	if notifier == nil {
		notifier = notify.Logger{Log: logger}
	}
	return &Resolver{
		conv:        conv,
		nav:         nav,
		notifier:    notifier,
		highlighter: highlighter,
		logger:      logger,
	}
}

// Resolve handles one navigation change. A non-chat path clears the
// selection. A chat path selects the chat locally when present; otherwise,
// once the initial bulk load has finished, the chat is point-fetched and
// inserted. A failed fetch notifies the user and navigates home. Before
// the initial load completes, unknown ids are left alone so the fetch does
// not race the bulk load.
func (r *Resolver) Resolve(ctx context.Context, path string) error {
	if r.highlighter != nil {
		r.highlighter.SetActivePath(path)
	}

	id, ok := ParseChatPath(path)
	if !ok {
		r.conv.ClearCurrent()
		return nil
	}

	if r.conv.SelectChat(id) {
		return nil
	}

	if !r.conv.Loaded() {
		r.logger.Debug("chat resolution deferred until initial load", "chat", id)
		return nil
	}

	if err := r.conv.FetchAndSelect(ctx, id); err != nil {
		r.logger.Warn("chat resolution failed", "chat", id, "error", err)
		r.notifier.Error("Chat not found")
		r.nav.Navigate("/")
		return fmt.Errorf("resolve %q: %w", path, err)
	}
	return nil
}
