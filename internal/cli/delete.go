package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteFolderID string

var deleteCmd = &cobra.Command{
	Use:   "delete <chat-id>",
	Short: "Delete a chat",
	Long: `Delete a chat. For chats inside a folder, pass the folder id so the
folder's sidebar copy is removed too.

Examples:
  chatdeck delete a1B2c3D4e5
  chatdeck delete a1B2c3D4e5 --folder folder-x9Y8z7W6v5`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().StringVarP(&deleteFolderID, "folder", "f", "", "folder containing the chat")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	chatID := args[0]

	org, err := getOrganization(ctx)
	if err != nil {
		return err
	}

	if deleteFolderID != "" {
		if err := org.DeleteChatFromFolder(ctx, deleteFolderID, chatID); err != nil {
			return fmt.Errorf("delete chat: %w", err)
		}
		return nil
	}
	if err := org.DeleteChat(ctx, chatID); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	return nil
}
