// Package discord provides the command handler for loading and registering commands.
package discord

import (
	"github.com/PancyStudios/StrikeTrackerBot/pkg/config"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler manages command, component and modal registration
type CommandHandler struct {
	client        *ExtendedClient
	slashCommands []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:        client,
		slashCommands: make([]*discordgo.ApplicationCommand, 0),
	}
}

// RegisterCommand adds a top-level command
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)
	ch.slashCommands = append(ch.slashCommands, cmd.ToApplicationCommand())
	logger.Debug("Command registered: "+cmd.Name, "CommandHandler")
}

// RegisterComponent routes custom ids with the given prefix to run
func (ch *CommandHandler) RegisterComponent(prefix string, run ComponentRunFunc) {
	ch.client.Components.Set(&Component{Prefix: prefix, Run: run})
	logger.Debug("Component registered: "+prefix, "CommandHandler")
}

// RegisterModal routes modal submits with the given prefix to run
func (ch *CommandHandler) RegisterModal(prefix string, run ComponentRunFunc) {
	ch.client.Modals.Set(&Component{Prefix: prefix, Run: run})
	logger.Debug("Modal registered: "+prefix, "CommandHandler")
}

// BuildCommandGroup creates a command group with subcommands. The group
// inherits the strictest permissions of its subcommands.
func (ch *CommandHandler) BuildCommandGroup(name, description string, subcommands ...*Command) *discordgo.ApplicationCommand {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))

	var perms int64
	for _, cmd := range subcommands {
		fullName := name + "." + cmd.Name
		ch.client.Commands.Set(fullName, cmd)
		perms |= cmd.UserPermissions

		opt := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		}
		options = append(options, opt)
	}

	group := NewCommand(name, description, "", nil).WithUserPermissions(perms).ToApplicationCommand()
	group.Options = options
	return group
}

// AddGlobalCommand adds a prebuilt command to the registration list
func (ch *CommandHandler) AddGlobalCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommands = append(ch.slashCommands, cmd)
}

// ApplicationCommands returns the commands that RegisterCommands sends
func (ch *CommandHandler) ApplicationCommands() []*discordgo.ApplicationCommand {
	return append([]*discordgo.ApplicationCommand(nil), ch.slashCommands...)
}

func (ch *CommandHandler) appID() string {
	if id := config.Get().ApplicationID; id != "" {
		return id
	}
	if ch.client.Session.State != nil && ch.client.Session.State.User != nil {
		return ch.client.Session.State.User.ID
	}
	// without a gateway connection, ask the REST API
	if me, err := ch.client.Session.User("@me"); err == nil {
		return me.ID
	}
	return ""
}

// RegisterCommands overwrites the application's commands in GUILD_ID when it
// is set, globally otherwise
func (ch *CommandHandler) RegisterCommands() error {
	return ch.SyncCommands(config.Get().GuildID)
}

// SyncCommands replaces every command in guildID (global when empty) with the
// current set. Stale commands disappear in the same call.
func (ch *CommandHandler) SyncCommands(guildID string) error {
	scope := "global"
	if guildID != "" {
		scope = "guild " + guildID
	}
	logger.Info("🔄 Registering commands ("+scope+")...", "CommandHandler")

	cmds, err := ch.client.Session.ApplicationCommandBulkOverwrite(ch.appID(), guildID, ch.slashCommands)
	if err != nil {
		return err
	}

	logger.Success("✅ Registered commands: "+commandNames(cmds), "CommandHandler")
	return nil
}

// ListGlobalCommands lists the commands Discord has globally
func (ch *CommandHandler) ListGlobalCommands() ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.appID(), "")
}

// ListGuildCommands lists the commands Discord has in a guild
func (ch *CommandHandler) ListGuildCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.appID(), guildID)
}

// UnregisterCommands removes all commands in guildID (global when empty)
func (ch *CommandHandler) UnregisterCommands(guildID string) error {
	_, err := ch.client.Session.ApplicationCommandBulkOverwrite(ch.appID(), guildID, []*discordgo.ApplicationCommand{})
	return err
}

func commandNames(cmds []*discordgo.ApplicationCommand) string {
	out := ""
	for i, c := range cmds {
		if i > 0 {
			out += ", "
		}
		out += "/" + c.Name
	}
	if out == "" {
		return "(none)"
	}
	return out
}
