// Package cli provides the command-line interface for chatdeck.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/chatdeck/chatdeck/internal/assistant"
	"github.com/chatdeck/chatdeck/internal/bus"
	"github.com/chatdeck/chatdeck/internal/catalog"
	"github.com/chatdeck/chatdeck/internal/client"
	"github.com/chatdeck/chatdeck/internal/config"
	"github.com/chatdeck/chatdeck/internal/db"
	"github.com/chatdeck/chatdeck/internal/store"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	serverURL string

	// Global config and db client
	cfg      config.Config
	dbClient *db.Client

	// Backing store for the current invocation, either the db client or
	// the REST client when --server is given.
	gateway store.Gateway

	// Shared state wired per invocation
	registry  *catalog.Registry
	signalBus *bus.Bus
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "chatdeck",
	Short: "Conversations with a simulated assistant, from the terminal",
	Long: `Chatdeck manages chats and folders against the same store the web UI
uses: send messages, get the simulated assistant's reply, organize
conversations into folders, and inspect the model catalog.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip DB connection for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "models" {
			return nil
		}

		// Load config
		cfg = config.Load()

		registry = catalog.NewRegistry()
		signalBus = bus.New()

		// Talk to a running server instead of the database directly
		if serverURL != "" || os.Getenv("CHATDECK_SERVER_URL") != "" {
			gateway = client.New(serverURL)
			return nil
		}

		// Connect to database
		ctx := context.Background()
		dbCfg := db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}

		var err error
		dbClient, err = db.NewClient(ctx, dbCfg, nil)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		// Initialize schema
		if err := dbClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		gateway = dbClient
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		// Close database connection
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
	},
}

// getConversation builds a loaded conversation store for one invocation.
func getConversation(ctx context.Context) (*store.ConversationStore, error) {
	conv := store.NewConversationStore(store.ConversationDeps{
		Gateway:   gateway,
		Notifier:  theme.notifier(),
		Bus:       signalBus,
		Responder: assistant.NewResponder(cfg.ReplyDelay, nil),
		Registry:  registry,
	})
	if err := conv.Load(ctx); err != nil {
		return nil, err
	}
	return conv, nil
}

// getOrganization builds a refreshed organization store for one invocation.
func getOrganization(ctx context.Context) (*store.OrganizationStore, error) {
	org := store.NewOrganizationStore(gateway, theme.notifier(), nil)
	if err := org.Refresh(ctx); err != nil {
		return nil, err
	}
	return org, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "chatdeck server URL (talk to a running server instead of the database)")

	// Add subcommands
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(folderCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(usageCmd)
}
