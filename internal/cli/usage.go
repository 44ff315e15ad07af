package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/chatdeck/chatdeck/internal/catalog"
	"github.com/chatdeck/chatdeck/internal/models"
	"github.com/spf13/cobra"
)

var usageDetailed bool

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show conversation statistics",
	Long: `Show totals over the stored conversations: chats, folders, messages,
and which sub-models produced the assistant replies.

Examples:
  chatdeck usage
  chatdeck usage --detailed`,
	RunE: runUsage,
}

func init() {
	usageCmd.Flags().BoolVar(&usageDetailed, "detailed", false, "show per-model breakdown")
}

func runUsage(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	chats, err := gateway.ListChats(ctx)
	if err != nil {
		return fmt.Errorf("list chats: %w", err)
	}
	folders, err := gateway.ListFolders(ctx)
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}

	var userMsgs, assistantMsgs int
	byModel := make(map[string]int)
	for _, chat := range chats {
		for _, msg := range chat.Messages {
			switch msg.Role {
			case models.RoleUser:
				userMsgs++
			case models.RoleAssistant:
				assistantMsgs++
				byModel[msg.ModelID]++
			}
		}
	}

	fmt.Println(theme.headingStyle().Render("Conversation Statistics"))
	fmt.Printf("Chats:    %d\n", len(chats))
	fmt.Printf("Folders:  %d\n", len(folders))
	fmt.Printf("Messages: %d (%d sent, %d replies)\n",
		userMsgs+assistantMsgs, userMsgs, assistantMsgs)

	if usageDetailed && len(byModel) > 0 {
		fmt.Printf("\nReplies by model:\n")
		ids := make([]string, 0, len(byModel))
		for id := range byModel {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			pct := float64(byModel[id]) / float64(assistantMsgs) * 100
			fmt.Printf("  %-28s %6d (%5.1f%%)\n", catalog.ModelNameByID(id), byModel[id], pct)
		}
	}
	return nil
}
