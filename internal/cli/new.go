package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var newFolderID string

var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new chat",
	Long: `Create an empty chat, optionally inside a folder.

Examples:
  chatdeck new
  chatdeck new "Planning notes"
  chatdeck new "Standup" --folder folder-a1B2c3D4e5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newFolderID, "folder", "f", "", "create the chat inside this folder")
}

func runNew(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	title := ""
	if len(args) > 0 {
		title = args[0]
	}

	org, err := getOrganization(ctx)
	if err != nil {
		return err
	}

	var id string
	if newFolderID != "" {
		id, err = org.AddChatToFolder(ctx, newFolderID, title)
	} else {
		id, err = org.AddChat(ctx, title)
	}
	if err != nil {
		return fmt.Errorf("create chat: %w", err)
	}

	fmt.Printf("Created chat %s\n", theme.headingStyle().Render(id))
	return nil
}
