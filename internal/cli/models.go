package cli

import (
	"fmt"

	"github.com/chatdeck/chatdeck/internal/catalog"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the simulated model catalog",
	Long: `Show the providers and sub-models assistant replies can be stamped
with. Pass a sub-model id to 'send --model' to answer with it.`,
	RunE: runModels,
}

func runModels(cmd *cobra.Command, args []string) error {
	for _, model := range catalog.Models {
		fmt.Printf("%s %s\n",
			theme.headingStyle().Render(model.Name),
			theme.hintStyle().Render("("+model.Plan+")"))
		for _, sub := range model.SubModels {
			fmt.Printf("  %-28s %s\n", sub.ID, sub.Description)
		}
	}
	return nil
}
