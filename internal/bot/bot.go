package bot

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/hatbot/internal/config"
	"github.com/fadedpez/hatbot/internal/discord"
	"github.com/fadedpez/hatbot/internal/logging"
	"github.com/fadedpez/hatbot/pkg/hat"
	"github.com/fadedpez/hatbot/pkg/storage"
)

// Bot represents the Discord bot and its dependencies
type Bot struct {
	config     *config.Config
	session    discord.SessionHandler
	commands   []*discordgo.ApplicationCommand
	transactor *storage.Transactor
	deliverer  *discord.Deliverer
	policy     Policy
	picker     hat.Picker
	logger     *logging.Logger
	shutdownWg sync.WaitGroup
}

// New creates a new instance of Bot
func New(cfg *config.Config, session discord.SessionHandler, store storage.Store, logger *logging.Logger) (*Bot, error) {
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		logger = logging.Default
	}

	bot := &Bot{
		config:     cfg,
		session:    session,
		commands:   make([]*discordgo.ApplicationCommand, 0),
		transactor: storage.NewTransactor(store),
		deliverer:  discord.NewDeliverer(session, logger),
		policy:     NewPolicy(cfg),
		picker:     hat.DefaultPicker,
		logger:     logger,
	}

	bot.registerHandlers()

	return bot, nil
}

// Transactor returns the transactor guarding the bot's store
func (b *Bot) Transactor() *storage.Transactor {
	return b.transactor
}

// registerHandlers attaches the bot's event handlers to the session
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.handleInteractionCreate)
}

// Start initializes the bot and connects to Discord
func (b *Bot) Start() error {
	// Open connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	// Register commands
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Registered %d commands", len(b.commands))
	return nil
}

// Shutdown gracefully shuts down the bot
func (b *Bot) Shutdown() {
	// Cleanup commands if in development
	if b.config.IsDevelopment() {
		if err := b.cleanupCommands(); err != nil {
			b.logger.Warn("Error cleaning up commands: %v", err)
		}
	}

	// Close Discord session
	if err := b.session.Close(); err != nil {
		b.logger.Error("Error closing Discord session: %v", err)
	}

	// Wait for any ongoing commands to complete
	b.shutdownWg.Wait()
}

// handleReady logs the identity the bot connected as
func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		b.logger.Info("Logged in as %s", r.User.String())
	}
}

// handleInteractionCreate handles Discord interaction events
func (b *Bot) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleSlashCommand(i)
	}
}
