// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with additional functionality for command, component
// and event handling.
package discord

import (
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/config"
	apperrors "github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// discordgo.Logger is a function, not an interface
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	Components     *ComponentCollection
	Modals         *ComponentCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	StartTime      time.Time
	mu             sync.RWMutex
	isReady        bool
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands
func (cc *CommandCollection) All() map[string]*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make(map[string]*Command)
	for k, v := range cc.commands {
		result[k] = v
	}
	return result
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token string) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(token string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := &ExtendedClient{
		Session:    session,
		Commands:   NewCommandCollection(),
		Components: NewComponentCollection(),
		Modals:     NewComponentCollection(),
		isReady:    false,
	}

	c.CommandHandler = NewCommandHandler(c)
	c.EventHandler = NewEventHandler(c)

	return c, nil
}

// Start initializes and starts the bot
func (c *ExtendedClient) Start() error {
	logger.System(fmt.Sprintf("Loaded %d commands, %d components, %d modals",
		c.Commands.Size(), c.Components.Size(), c.Modals.Size()), "Client")

	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Logged in as: "+r.User.Username, "Client")

		if err := c.CommandHandler.RegisterCommands(); err != nil {
			logger.Error("Failed to register commands: "+err.Error(), "Client")
		}
	})

	c.Session.AddHandler(c.handleInteraction)

	c.StartTime = time.Now()

	return c.Session.Open()
}

// commandKey builds "name", "name.sub" or "name.group.sub"
func commandKey(data discordgo.ApplicationCommandInteractionData) string {
	name := data.Name
	if len(data.Options) > 0 {
		opt := data.Options[0]
		if opt.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
			if len(opt.Options) > 0 {
				name = data.Name + "." + opt.Name + "." + opt.Options[0].Name
			}
		} else if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			name = data.Name + "." + opt.Name
		}
	}
	return name
}

// handleInteraction handles incoming Discord interactions
func (c *ExtendedClient) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := &CommandContext{
		Session:     s,
		Interaction: i,
		Client:      c,
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		cmd, ok := c.Commands.Get(commandKey(i.ApplicationCommandData()))
		if !ok || cmd.AutoComplete == nil {
			return
		}
		defer apperrors.RecoverMiddleware("autocomplete " + cmd.Name)()
		cmd.AutoComplete(ctx)

	case discordgo.InteractionApplicationCommand:
		name := commandKey(i.ApplicationCommandData())
		cmd, ok := c.Commands.Get(name)
		if !ok {
			logger.Warn("Command not found: "+name, "Client")
			return
		}
		c.dispatch(ctx, "/"+name, func(ctx *CommandContext) error {
			if !ctx.HasPermissions(cmd.UserPermissions) {
				return apperrors.Validation("❌ You don't have permission to use this command.")
			}
			if !ctx.BotHasPermissions(cmd.BotPermissions) {
				return apperrors.Configuration("⚠️ I'm missing permissions in this channel.")
			}
			return cmd.Run(ctx)
		})

	case discordgo.InteractionMessageComponent:
		id := i.MessageComponentData().CustomID
		handler, args, ok := c.Components.Match(id)
		if !ok {
			logger.Debug("Unhandled component: "+id, "Client")
			return
		}
		ctx.Args = args
		c.dispatch(ctx, "component "+id, handler.Run)

	case discordgo.InteractionModalSubmit:
		id := i.ModalSubmitData().CustomID
		handler, args, ok := c.Modals.Match(id)
		if !ok {
			logger.Debug("Unhandled modal: "+id, "Client")
			return
		}
		ctx.Args = args
		c.dispatch(ctx, "modal "+id, handler.Run)
	}
}

// dispatch runs a handler behind a recover and turns its error into a reply.
// User errors show their own message; anything else is logged and replaced
// with a generic one.
func (c *ExtendedClient) dispatch(ctx *CommandContext, name string, run func(*CommandContext) error) {
	defer func() {
		if r := recover(); r != nil {
			apperrors.Recovered(name, r)
			c.fail(ctx, apperrors.GenericMessage)
		}
	}()

	err := run(ctx)
	if err == nil {
		return
	}

	if ue, ok := apperrors.AsUserError(err); ok {
		if ue.Kind == apperrors.KindExternal {
			logger.Warn(fmt.Sprintf("%s: %v", name, err), "Client")
		} else {
			logger.Debug(fmt.Sprintf("%s: %v", name, err), "Client")
		}
	} else {
		logger.Error(fmt.Sprintf("Error executing %s: %v", name, err), "Client")
	}
	c.fail(ctx, apperrors.PublicMessage(err))
}

func (c *ExtendedClient) fail(ctx *CommandContext, message string) {
	if err := ctx.ReplyEphemeral(message); err != nil {
		logger.Error("Failed to send error reply: "+err.Error(), "Client")
	}
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c == nil || c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// GetConfig returns the bot configuration
func (c *ExtendedClient) GetConfig() *config.Config {
	return config.Get()
}
