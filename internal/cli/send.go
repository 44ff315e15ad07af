package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/chatdeck/chatdeck/internal/assistant"
	"github.com/chatdeck/chatdeck/internal/catalog"
	"github.com/chatdeck/chatdeck/internal/models"
	"github.com/spf13/cobra"
)

var (
	sendChatID   string
	sendThinking bool
	sendSearch   bool
	sendModel    string
)

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send a message and print the assistant's reply",
	Long: `Send a message. Without --chat a new chat is created and titled from
the message; with --chat the message is appended to that chat. The
command waits for the simulated reply before returning.

Examples:
  chatdeck send "What is a slice?"
  chatdeck send --chat a1B2c3D4e5 "And a map?"
  chatdeck send --thinking --search "Compare both"`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendChatID, "chat", "c", "", "append to an existing chat id")
	sendCmd.Flags().BoolVar(&sendThinking, "thinking", false, "enable the Thinking option")
	sendCmd.Flags().BoolVar(&sendSearch, "search", false, "enable the Search option")
	sendCmd.Flags().StringVar(&sendModel, "model", "", "sub-model id to answer with")
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	content := args[0]

	if sendModel != "" {
		parent := catalog.ParentModelByID(sendModel)
		if parent == nil {
			return fmt.Errorf("unknown model id: %s", sendModel)
		}
		registry.SetActiveModel(parent.ID)
		registry.SetActiveSubModel(sendModel)
	}

	conv, err := getConversation(ctx)
	if err != nil {
		return err
	}

	if sendChatID != "" {
		if !conv.SelectChat(sendChatID) {
			return fmt.Errorf("chat not found: %s", sendChatID)
		}
	}

	// watch for the reply before sending so the signal can't be missed
	signals, cancel := signalBus.Subscribe()
	defer cancel()

	if err := conv.SendMessage(ctx, content, assistant.SendOptions{
		Thinking: sendThinking,
		Search:   sendSearch,
	}); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	current := conv.Current()
	fmt.Printf("Chat %s (%s)\n\n", theme.headingStyle().Render(current.Title), current.ID)

	select {
	case <-signals:
	case <-time.After(cfg.ReplyDelay + 5*time.Second):
		return fmt.Errorf("timed out waiting for the assistant reply")
	}

	msgs := conv.Current().Messages
	if len(msgs) == 0 {
		return nil
	}
	reply := msgs[len(msgs)-1]
	if reply.Role == models.RoleAssistant {
		fmt.Println(reply.Content)
		if verbose && reply.ModelID != "" {
			fmt.Println(theme.hintStyle().Render("— " + catalog.ModelNameByID(reply.ModelID)))
		}
	}
	return nil
}
