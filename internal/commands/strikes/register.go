// Package strikes provides the strike and warning commands, the launcher
// buttons and the infraction modal.
package strikes

import (
	"github.com/PancyStudios/StrikeTrackerBot/internal/services"
	"github.com/PancyStudios/StrikeTrackerBot/internal/striker"
	apperrors "github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
)

// RegisterStrikeCommands registers /strikes, /strike-launcher, /strikechannel
// and the launcher, pager and modal handlers
func RegisterStrikeCommands(client *discord.ExtendedClient) {
	client.CommandHandler.RegisterCommand(createStrikesCommand())
	client.CommandHandler.RegisterCommand(createLauncherCommand())
	client.CommandHandler.RegisterCommand(createStrikeChannelCommand())

	client.CommandHandler.RegisterComponent(striker.LauncherPrefix, openModalHandler)
	client.CommandHandler.RegisterComponent(striker.PagerPrefix, pageHandler)
	client.CommandHandler.RegisterModal(striker.ModalPrefix, infractionHandler)
}

func current() (*services.Services, error) {
	s := services.Get()
	if s == nil {
		return nil, apperrors.Configuration("⚠️ The bot is still starting, try again in a moment.")
	}
	return s, nil
}
