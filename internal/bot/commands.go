package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Command names
const (
	CommandHat    = "hat"
	CommandDraw   = "draw"
	CommandRedraw = "redraw"
	CommandKeep   = "keep"
	CommandReset  = "reset"

	SubcommandSet    = "set"
	SubcommandAdd    = "add"
	SubcommandRemove = "remove"
	SubcommandList   = "list"
)

// Commands defines all slash commands for the bot
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        CommandHat,
		Description: "Manage the hat",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandSet,
				Description: "Replace the hat with a comma-separated list of names (admins)",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "names",
						Description: "Comma-separated names, e.g. Alice, Bob, Carol",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandAdd,
				Description: "Add a name to the hat",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Name to add",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandRemove,
				Description: "Remove one instance of a name from the hat (admins)",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Name to remove",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandList,
				Description: "Show what's in the hat (admins)",
			},
		},
	},
	{
		Name:        CommandDraw,
		Description: "Draw a name from the hat",
	},
	{
		Name:        CommandRedraw,
		Description: "Put your draw back and draw again",
	},
	{
		Name:        CommandKeep,
		Description: "Keep your current draw",
	},
	{
		Name:        CommandReset,
		Description: "Clear the hat and all pending draws (admins)",
	},
}

// elevatedCommands lists the commands that require TierElevated
var elevatedCommands = map[string]bool{
	CommandHat + " " + SubcommandSet:    true,
	CommandHat + " " + SubcommandRemove: true,
	CommandHat + " " + SubcommandList:   true,
	CommandReset:                        true,
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	registered := make([]*discordgo.ApplicationCommand, 0, len(Commands))
	for _, cmd := range Commands {
		created, err := b.session.ApplicationCommandCreate(b.config.AppID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
		}
		registered = append(registered, created)
		b.logger.Debug("Registered command /%s", cmd.Name)
	}
	b.commands = registered
	return nil
}

// cleanupCommands removes every command registered for the app in the configured guild
func (b *Bot) cleanupCommands() error {
	existing, err := b.session.ApplicationCommands(b.config.AppID, b.config.GuildID)
	if err != nil {
		return fmt.Errorf("failed to list commands: %w", err)
	}

	for _, cmd := range existing {
		if err := b.session.ApplicationCommandDelete(b.config.AppID, b.config.GuildID, cmd.ID); err != nil {
			b.logger.Warn("Failed to delete command /%s: %v", cmd.Name, err)
		}
	}
	b.commands = nil
	return nil
}

// commandPath returns the invoked command as "name" or "name subcommand"
func commandPath(data discordgo.ApplicationCommandInteractionData) string {
	if data.Name == CommandHat && len(data.Options) > 0 && data.Options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return data.Name + " " + data.Options[0].Name
	}
	return data.Name
}

// stringOption returns the named string option of the invoked subcommand
func stringOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	options := data.Options
	if len(options) > 0 && options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		options = options[0].Options
	}
	for _, opt := range options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}
