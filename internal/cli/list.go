package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/chatdeck/chatdeck/internal/store"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders and chats",
	Long: `List the sidebar: folders with their chats first, then loose chats
grouped by how recently they were updated.

Examples:
  chatdeck list
  chatdeck list -v`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	org, err := getOrganization(ctx)
	if err != nil {
		return err
	}

	folders := org.Folders()
	if len(folders) > 0 {
		fmt.Println(theme.headingStyle().Render("Folders"))
		for _, folder := range folders {
			fmt.Printf("  %s (%d)\n", folder.Title, len(folder.Items))
			for _, item := range folder.Items {
				fmt.Printf("    - %s", item.Title)
				if verbose {
					fmt.Printf("  %s", theme.hintStyle().Render(item.ID))
				}
				fmt.Println()
			}
		}
		fmt.Println()
	}

	ungrouped := org.Ungrouped()
	if len(ungrouped) == 0 && len(folders) == 0 {
		fmt.Println("No chats yet.")
		return nil
	}

	for _, group := range store.GroupByRecency(ungrouped, time.Now()) {
		fmt.Println(theme.headingStyle().Render(group.Label))
		for _, chat := range group.Chats {
			fmt.Printf("  - %s", chat.Name)
			if verbose {
				fmt.Printf("  %s", theme.hintStyle().Render(chat.ID))
			}
			fmt.Println()
		}
	}
	return nil
}
