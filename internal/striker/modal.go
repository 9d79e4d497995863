package striker

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Text input ids of the infraction modal
const (
	InputChief  = "chief"
	InputReason = "reason"
)

// InfractionModal is the form opened by the launcher buttons
func InfractionModal(kind Kind) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: ModalPrefix + ":" + string(kind),
		Title:    "Add " + kind.Title(),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    InputChief,
						Label:       "Chief name",
						Style:       discordgo.TextInputShort,
						Placeholder: "Exactly as shown in game",
						Required:    true,
						MaxLength:   MaxChiefNameLength,
					},
				},
			},
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:  InputReason,
						Label:     "Reason",
						Style:     discordgo.TextInputParagraph,
						Required:  true,
						MaxLength: 1000,
					},
				},
			},
		},
	}
}

// ModalValues extracts the trimmed chief and reason of a submitted modal
func ModalValues(data discordgo.ModalSubmitInteractionData) (chief, reason string) {
	for _, c := range data.Components {
		row, ok := asActionsRow(c)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			input, ok := inner.(*discordgo.TextInput)
			if !ok {
				continue
			}
			switch input.CustomID {
			case InputChief:
				chief = strings.TrimSpace(input.Value)
			case InputReason:
				reason = strings.TrimSpace(input.Value)
			}
		}
	}
	return chief, reason
}
