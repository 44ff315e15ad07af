package models

import "time"

// FolderItem is a lightweight sidebar reference to a chat that lives in a
// folder. It duplicates the chat's id and title for display and is not the
// authoritative chat record.
type FolderItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	IsActive bool   `json:"isActive,omitempty"`
}

// Folder is a named grouping of chats.
type Folder struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	IsActive  bool         `json:"isActive,omitempty"`
	Items     []FolderItem `json:"items"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Clone returns a deep copy of the folder.
func (f Folder) Clone() Folder {
	out := f
	if f.Items != nil {
		out.Items = make([]FolderItem, len(f.Items))
		copy(out.Items, f.Items)
	}
	return out
}

// SidebarChat is the sidebar projection of a chat that is in no folder.
// It is derived from the chat collection and holds no message content.
type SidebarChat struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	IsActive  bool      `json:"isActive,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
