package models

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify lowercases a folder title and collapses whitespace runs into
// single hyphens. Used to build folder-scoped chat URLs. Two titles that
// differ only in case slugify identically; route resolution disambiguates
// by chat id, not by slug.
func Slugify(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(s), "-")
}

// titleLimit is the maximum derived-title length before truncation.
const titleLimit = 30

// DeriveTitle builds a chat title from the first user message: the content
// itself when it fits, otherwise the first 30 characters plus an ellipsis.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return content
}

// ChatURL returns the view path for an ungrouped chat.
func ChatURL(id string) string {
	return "/c/" + id
}

// FolderChatURL returns the view path for a chat inside a folder, built
// from the slugified folder title and the chat id joined by a hyphen.
func FolderChatURL(folderTitle, chatID string) string {
	return "/c/" + Slugify(folderTitle) + "-" + chatID
}
