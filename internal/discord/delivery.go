package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/hatbot/internal/logging"
)

// Deliverer sends replies, direct messages and announcements.
// Failures are logged and returned; nothing is retried.
type Deliverer struct {
	session SessionHandler
	logger  *logging.Logger
}

// NewDeliverer creates a Deliverer. A nil logger uses logging.Default.
func NewDeliverer(session SessionHandler, logger *logging.Logger) *Deliverer {
	if logger == nil {
		logger = logging.Default
	}
	return &Deliverer{session: session, logger: logger}
}

// Reply answers the interaction
func (d *Deliverer) Reply(requestID string, i *discordgo.InteractionCreate, r *Response) error {
	if err := SendResponse(d.session, i, r); err != nil {
		d.logger.Warn("[%s] failed to reply to interaction: %v", requestID, err)
		return err
	}
	return nil
}

// DirectMessage opens a DM channel with the user and posts content to it
func (d *Deliverer) DirectMessage(requestID, userID, content string) error {
	channel, err := d.session.UserChannelCreate(userID)
	if err != nil {
		d.logger.Warn("[%s] failed to open DM channel for user %s: %v", requestID, userID, err)
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	if channel == nil {
		d.logger.Warn("[%s] no DM channel returned for user %s", requestID, userID)
		return fmt.Errorf("no DM channel for user %s", userID)
	}

	if _, err := d.session.ChannelMessageSend(channel.ID, content); err != nil {
		d.logger.Warn("[%s] failed to DM user %s: %v", requestID, userID, err)
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}

// Announce posts a public message to the channel the command was used in
func (d *Deliverer) Announce(requestID, channelID, content string) error {
	if channelID == "" {
		return nil
	}
	if _, err := d.session.ChannelMessageSend(channelID, content); err != nil {
		d.logger.Warn("[%s] failed to announce in channel %s: %v", requestID, channelID, err)
		return err
	}
	return nil
}
