// Package discord provides command types and structures.
package discord

import (
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// CommandContext provides context for command, component and modal execution
type CommandContext struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Client      *ExtendedClient

	// Args holds the custom id parts after the prefix (components and modals)
	Args []string

	mu        sync.Mutex
	responded bool
	deferred  bool
}

// Command represents a Discord slash command
type Command struct {
	Name            string
	Description     string
	Category        string
	Options         []*discordgo.ApplicationCommandOption
	UserPermissions int64
	BotPermissions  int64
	Run             CommandRunFunc
	AutoComplete    AutoCompleteFunc
}

// CommandRunFunc is the function type for command execution
type CommandRunFunc func(ctx *CommandContext) error

// AutoCompleteFunc is the function type for autocomplete handling
type AutoCompleteFunc func(ctx *CommandContext)

// NewCommand creates a new Command with required fields
func NewCommand(name, description, category string, run CommandRunFunc) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Category:    category,
		Run:         run,
	}
}

// WithOptions sets the command options
func (c *Command) WithOptions(opts ...*discordgo.ApplicationCommandOption) *Command {
	c.Options = opts
	return c
}

// WithUserPermissions sets required user permissions. They also become the
// command's default member permissions.
func (c *Command) WithUserPermissions(perms int64) *Command {
	c.UserPermissions = perms
	return c
}

// WithBotPermissions sets required bot permissions
func (c *Command) WithBotPermissions(perms int64) *Command {
	c.BotPermissions = perms
	return c
}

// WithAutoComplete sets the autocomplete handler
func (c *Command) WithAutoComplete(fn AutoCompleteFunc) *Command {
	c.AutoComplete = fn
	return c
}

// ToApplicationCommand converts the command to a Discord application command
func (c *Command) ToApplicationCommand() *discordgo.ApplicationCommand {
	dm := false
	cmd := &discordgo.ApplicationCommand{
		Name:         c.Name,
		Description:  c.Description,
		Options:      c.Options,
		DMPermission: &dm,
	}
	if c.UserPermissions != 0 {
		perms := c.UserPermissions
		cmd.DefaultMemberPermissions = &perms
	}
	return cmd
}

func (ctx *CommandContext) respond(resp *discordgo.InteractionResponse) error {
	if err := ctx.Session.InteractionRespond(ctx.Interaction.Interaction, resp); err != nil {
		return err
	}
	ctx.mu.Lock()
	ctx.responded = true
	switch resp.Type {
	case discordgo.InteractionResponseDeferredChannelMessageWithSource,
		discordgo.InteractionResponseDeferredMessageUpdate:
		ctx.deferred = true
	}
	ctx.mu.Unlock()
	return nil
}

func (ctx *CommandContext) state() (responded, deferred bool) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.responded, ctx.deferred
}

// Reply sends a reply to the interaction
func (ctx *CommandContext) Reply(content string) error {
	return ctx.Respond(&discordgo.InteractionResponseData{Content: content})
}

// ReplyEmbed sends an embed reply to the interaction
func (ctx *CommandContext) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.Respond(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
}

// ReplyEphemeral sends an ephemeral reply visible only to the user
func (ctx *CommandContext) ReplyEphemeral(content string) error {
	return ctx.Respond(&discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// ReplyEphemeralEmbed sends an ephemeral embed reply visible only to the user
func (ctx *CommandContext) ReplyEphemeralEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.Respond(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
}

// Respond answers the interaction whatever state it is in: a first reply,
// an edit of a deferred reply, or a follow-up message.
func (ctx *CommandContext) Respond(data *discordgo.InteractionResponseData) error {
	responded, deferred := ctx.state()
	switch {
	case !responded:
		return ctx.respond(&discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: data,
		})
	case deferred:
		edit := &discordgo.WebhookEdit{
			Content:         &data.Content,
			Embeds:          &data.Embeds,
			AllowedMentions: data.AllowedMentions,
		}
		if data.Components != nil {
			edit.Components = &data.Components
		}
		_, err := ctx.Session.InteractionResponseEdit(ctx.Interaction.Interaction, edit)
		return err
	default:
		_, err := ctx.Session.FollowupMessageCreate(ctx.Interaction.Interaction, true, &discordgo.WebhookParams{
			Content:         data.Content,
			Embeds:          data.Embeds,
			Components:      data.Components,
			AllowedMentions: data.AllowedMentions,
			Flags:           data.Flags,
		})
		return err
	}
}

// Defer defers the interaction response
func (ctx *CommandContext) Defer(ephemeral bool) error {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	return ctx.respond(resp)
}

// ShowModal opens a modal as the interaction response
func (ctx *CommandContext) ShowModal(data *discordgo.InteractionResponseData) error {
	return ctx.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: data,
	})
}

// UpdateMessage rewrites the message a component belongs to
func (ctx *CommandContext) UpdateMessage(data *discordgo.InteractionResponseData) error {
	return ctx.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: data,
	})
}

// SendAutoCompleteChoices answers an autocomplete interaction
func (ctx *CommandContext) SendAutoCompleteChoices(choices []*discordgo.ApplicationCommandOptionChoice) error {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	return ctx.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

// EditReply edits the original interaction response
func (ctx *CommandContext) EditReply(content string) error {
	_, err := ctx.Session.InteractionResponseEdit(ctx.Interaction.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	return err
}

// EditReplyEmbed edits the original interaction response with an embed
func (ctx *CommandContext) EditReplyEmbed(embed *discordgo.MessageEmbed) error {
	_, err := ctx.Session.InteractionResponseEdit(ctx.Interaction.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	return err
}

// DeleteReply removes the original interaction response
func (ctx *CommandContext) DeleteReply() error {
	return ctx.Session.InteractionResponseDelete(ctx.Interaction.Interaction)
}

func (ctx *CommandContext) options() []*discordgo.ApplicationCommandInteractionDataOption {
	switch ctx.Interaction.Type {
	case discordgo.InteractionApplicationCommand, discordgo.InteractionApplicationCommandAutocomplete:
		return ctx.Interaction.ApplicationCommandData().Options
	}
	return nil
}

// GetOption retrieves an option value by name
func (ctx *CommandContext) GetOption(name string) *discordgo.ApplicationCommandInteractionDataOption {
	return findOption(ctx.options(), name)
}

// HasOption reports whether the user supplied an option
func (ctx *CommandContext) HasOption(name string) bool {
	return ctx.GetOption(name) != nil
}

// FocusedOption returns the option being autocompleted
func (ctx *CommandContext) FocusedOption() *discordgo.ApplicationCommandInteractionDataOption {
	return findFocused(ctx.options())
}

// findOption recursively finds an option by name
func findOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		if opt.Name == name {
			return opt
		}
		if len(opt.Options) > 0 {
			if found := findOption(opt.Options, name); found != nil {
				return found
			}
		}
	}
	return nil
}

func findFocused(options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		if opt.Focused {
			return opt
		}
		if found := findFocused(opt.Options); found != nil {
			return found
		}
	}
	return nil
}

// GetStringOption retrieves a string option value
func (ctx *CommandContext) GetStringOption(name string) string {
	opt := ctx.GetOption(name)
	if opt == nil {
		return ""
	}
	return opt.StringValue()
}

// GetIntOption retrieves an integer option value
func (ctx *CommandContext) GetIntOption(name string) int64 {
	opt := ctx.GetOption(name)
	if opt == nil {
		return 0
	}
	return opt.IntValue()
}

// GetFloatOption retrieves a number option value
func (ctx *CommandContext) GetFloatOption(name string) float64 {
	opt := ctx.GetOption(name)
	if opt == nil {
		return 0
	}
	return opt.FloatValue()
}

// GetBoolOption retrieves a boolean option value
func (ctx *CommandContext) GetBoolOption(name string) bool {
	opt := ctx.GetOption(name)
	if opt == nil {
		return false
	}
	return opt.BoolValue()
}

// GetUserOption retrieves a user option value
func (ctx *CommandContext) GetUserOption(name string) *discordgo.User {
	opt := ctx.GetOption(name)
	if opt == nil {
		return nil
	}
	return opt.UserValue(ctx.Session)
}

// GetChannelID retrieves a channel option's id without a lookup
func (ctx *CommandContext) GetChannelID(name string) string {
	return ctx.snowflake(name)
}

// GetUserID retrieves a user option's id without a lookup
func (ctx *CommandContext) GetUserID(name string) string {
	return ctx.snowflake(name)
}

func (ctx *CommandContext) snowflake(name string) string {
	opt := ctx.GetOption(name)
	if opt == nil {
		return ""
	}
	if id, ok := opt.Value.(string); ok {
		return id
	}
	return ""
}

// User returns the user who triggered the interaction
func (ctx *CommandContext) User() *discordgo.User {
	if ctx.Interaction.Member != nil {
		return ctx.Interaction.Member.User
	}
	return ctx.Interaction.User
}

// Member returns the guild member who triggered the interaction
func (ctx *CommandContext) Member() *discordgo.Member {
	return ctx.Interaction.Member
}

// GuildID returns the guild of the interaction, empty in DMs
func (ctx *CommandContext) GuildID() string {
	return ctx.Interaction.GuildID
}

// ChannelID returns the channel of the interaction
func (ctx *CommandContext) ChannelID() string {
	return ctx.Interaction.ChannelID
}

// HasPermissions reports whether the invoking member holds every bit of perms.
// Administrators always pass.
func (ctx *CommandContext) HasPermissions(perms int64) bool {
	if perms == 0 {
		return true
	}
	member := ctx.Member()
	if member == nil {
		return false
	}
	if member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return member.Permissions&perms == perms
}

// BotHasPermissions reports whether the bot holds perms in this channel
func (ctx *CommandContext) BotHasPermissions(perms int64) bool {
	if perms == 0 {
		return true
	}
	return ctx.Interaction.AppPermissions&perms == perms
}

// SplitCustomID splits "prefix:a:b" into the prefix and its arguments
func SplitCustomID(customID string) (string, []string) {
	parts := strings.Split(customID, ":")
	return parts[0], parts[1:]
}
