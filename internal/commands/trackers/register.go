// Package trackers provides the donation tracker commands
package trackers

import (
	"github.com/PancyStudios/StrikeTrackerBot/internal/services"
	"github.com/PancyStudios/StrikeTrackerBot/internal/tracker"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	apperrors "github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterTrackerCommands registers /start, /add, /edit, /remove, /list and /help
func RegisterTrackerCommands(client *discord.ExtendedClient) {
	client.CommandHandler.RegisterCommand(createStartCommand())
	client.CommandHandler.RegisterCommand(createAddCommand())
	client.CommandHandler.RegisterCommand(createEditCommand())
	client.CommandHandler.RegisterCommand(createRemoveCommand())
	client.CommandHandler.RegisterCommand(createListCommand())
	client.CommandHandler.RegisterCommand(createHelpCommand())
}

func trackers() (*tracker.Service, error) {
	s := services.Get()
	if s == nil {
		return nil, apperrors.Configuration("⚠️ The bot is still starting, try again in a moment.")
	}
	return s.Tracker, nil
}

// nameOption is the tracker name picker shared by most commands
func nameOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "name",
		Description:  description,
		Required:     true,
		Autocomplete: true,
	}
}

func currencyOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "currency",
		Description:  description,
		Autocomplete: true,
	}
}

// autocomplete suggests currencies or the guild's tracker names
func autocomplete(ctx *discord.CommandContext) {
	focused := ctx.FocusedOption()
	if focused == nil {
		return
	}
	query := focused.StringValue()

	var choices []*discordgo.ApplicationCommandOptionChoice
	switch focused.Name {
	case "currency":
		for _, c := range tracker.CurrencySuggestions(query) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: c.Name, Value: c.Value})
		}
	default:
		svc, err := trackers()
		if err != nil {
			break
		}
		for _, name := range svc.Names(ctx.GuildID(), query) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
		}
	}

	if err := ctx.SendAutoCompleteChoices(choices); err != nil {
		logger.Debug("Autocomplete reply failed: "+err.Error(), "Tracker")
	}
}
