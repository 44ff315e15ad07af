package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var renameFolderID string

var renameCmd = &cobra.Command{
	Use:   "rename <chat-id> <new-name>",
	Short: "Rename a chat",
	Long: `Rename a chat. For chats inside a folder, pass the folder id so the
folder's sidebar copy is updated too.

Examples:
  chatdeck rename a1B2c3D4e5 "Sprint planning"
  chatdeck rename a1B2c3D4e5 "Sprint planning" --folder folder-x9Y8z7W6v5`,
	Args: cobra.ExactArgs(2),
	RunE: runRename,
}

func init() {
	renameCmd.Flags().StringVarP(&renameFolderID, "folder", "f", "", "folder containing the chat")
}

func runRename(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	chatID, name := args[0], args[1]

	org, err := getOrganization(ctx)
	if err != nil {
		return err
	}

	if renameFolderID != "" {
		if err := org.RenameChatInFolder(ctx, renameFolderID, chatID, name); err != nil {
			return fmt.Errorf("rename chat: %w", err)
		}
		return nil
	}
	if err := org.RenameChat(ctx, chatID, name); err != nil {
		return fmt.Errorf("rename chat: %w", err)
	}
	return nil
}
