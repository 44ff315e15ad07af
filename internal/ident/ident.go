// Package ident generates the short random identifiers used for chats,
// messages, and folders.
package ident

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// alphabet is the URL-safe character set for generated ids. Hyphens are
// deliberately excluded: chat ids end up as the last hyphen-separated token
// of folder-scoped URLs, so an id containing a hyphen would be ambiguous.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const (
	chatIDLen    = 10
	messageIDLen = 21
)

// NewChatID returns a fresh 10-character chat or folder identifier.
func NewChatID() string {
	return gonanoid.MustGenerate(alphabet, chatIDLen)
}

// NewMessageID returns a fresh 21-character message identifier.
func NewMessageID() string {
	return gonanoid.MustGenerate(alphabet, messageIDLen)
}

// NewFolderID returns a fresh folder identifier with the "folder-" prefix
// the sidebar uses to tell folders apart from chats at a glance.
func NewFolderID() string {
	return "folder-" + gonanoid.MustGenerate(alphabet, chatIDLen)
}
