package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders",
	Long: `Create, rename, and delete folders, and move chats into them.

Examples:
  chatdeck folder add "Work"
  chatdeck folder move a1B2c3D4e5 folder-x9Y8z7W6v5
  chatdeck folder rename folder-x9Y8z7W6v5 "Archive"
  chatdeck folder delete folder-x9Y8z7W6v5`,
}

var folderAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runFolderAdd,
}

var folderDeleteCmd = &cobra.Command{
	Use:   "delete <folder-id>",
	Short: "Delete a folder",
	Long: `Delete a folder. Chats inside it are not deleted, but they keep their
folder association and stay out of the loose chat list.`,
	Args: cobra.ExactArgs(1),
	RunE: runFolderDelete,
}

var folderMoveCmd = &cobra.Command{
	Use:   "move <chat-id> <folder-id>",
	Short: "Move a loose chat into a folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runFolderMove,
}

var folderRenameCmd = &cobra.Command{
	Use:   "rename <folder-id> <new-name>",
	Short: "Rename a folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runFolderRename,
}

func init() {
	folderCmd.AddCommand(folderAddCmd)
	folderCmd.AddCommand(folderDeleteCmd)
	folderCmd.AddCommand(folderMoveCmd)
	folderCmd.AddCommand(folderRenameCmd)
}

func runFolderAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	org, err := getOrganization(ctx)
	if err != nil {
		return err
	}

	id, err := org.AddFolder(ctx, args[0])
	if err != nil {
		return fmt.Errorf("add folder: %w", err)
	}
	fmt.Printf("Created folder %s\n", theme.headingStyle().Render(id))
	return nil
}

func runFolderDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	org, err := getOrganization(ctx)
	if err != nil {
		return err
	}

	if err := org.DeleteFolder(ctx, args[0]); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}

func runFolderMove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	org, err := getOrganization(ctx)
	if err != nil {
		return err
	}

	if err := org.MoveChatToFolder(ctx, args[0], args[1]); err != nil {
		return fmt.Errorf("move chat: %w", err)
	}
	return nil
}

func runFolderRename(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	org, err := getOrganization(ctx)
	if err != nil {
		return err
	}

	if err := org.RenameFolder(ctx, args[0], args[1]); err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}
	return nil
}
