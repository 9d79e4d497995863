// Package main provides a utility to sync Discord slash commands.
// It talks to the REST API only, the bot does not need to be running.
//
// Usage:
//
//	sync-commands sync  [--guild <id>]   replace the registered commands with the current set
//	sync-commands list  [--guild <id>]   list the registered commands
//	sync-commands clean [--guild <id>]   remove every registered command
package main

import (
	"fmt"
	"os"

	"github.com/PancyStudios/StrikeTrackerBot/internal/commands"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/config"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
)

var guildID string

var rootCmd = &cobra.Command{
	Use:           "sync-commands",
	Short:         "Manage the bot's registered slash commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replace the registered commands with the current set",
	RunE: withClient(func(client *discord.ExtendedClient) error {
		return client.CommandHandler.SyncCommands(guildID)
	}),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered commands",
	RunE:  withClient(listCommands),
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every registered command",
	RunE: withClient(func(client *discord.ExtendedClient) error {
		logger.Info("🧹 Removing all commands ("+scope()+")...", "SyncCommands")
		if err := client.CommandHandler.UnregisterCommands(guildID); err != nil {
			return err
		}
		logger.Success("✅ All commands removed", "SyncCommands")
		return nil
	}),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&guildID, "guild", "", "target a guild instead of the global commands")
	rootCmd.AddCommand(syncCmd, listCmd, cleanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func scope() string {
	if guildID == "" {
		return "global"
	}
	return "guild " + guildID
}

// withClient loads the configuration, builds a client with every command
// registered and hands it to run
func withClient(run func(*discord.ExtendedClient) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
		defer log.Close()

		client, err := discord.NewClient(cfg.BotToken)
		if err != nil {
			return fmt.Errorf("creating Discord client: %w", err)
		}
		commands.RegisterAll(client)

		return run(client)
	}
}

// listCommands logs the commands Discord currently has
func listCommands(client *discord.ExtendedClient) error {
	logger.Info("📋 Listing registered commands ("+scope()+")...", "SyncCommands")

	var cmds []*discordgo.ApplicationCommand
	var err error
	if guildID != "" {
		cmds, err = client.CommandHandler.ListGuildCommands(guildID)
	} else {
		cmds, err = client.CommandHandler.ListGlobalCommands()
	}
	if err != nil {
		return err
	}

	if len(cmds) == 0 {
		logger.Info("No commands registered", "SyncCommands")
		return nil
	}

	logger.Info(fmt.Sprintf("Commands found: %d", len(cmds)), "SyncCommands")
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), "SyncCommands")
	}
	return nil
}
