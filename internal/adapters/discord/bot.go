// Package discord posts participation changes to a Discord channel and answers
// the /events slash command.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventcore/internal/ports/input"
	"eventcore/internal/ports/output"
)

// Bot owns the Discord session.
type Bot struct {
	session  *discordgo.Session
	handler  *Handler
	observer *ChannelObserver
	logger   *slog.Logger
}

func NewBot(token, channelID string, events input.EventUseCase, translator output.T, locale string, location *time.Location, logger *slog.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	bot := &Bot{
		session:  s,
		handler:  NewHandler(events, translator, location),
		observer: NewChannelObserver(s, channelID, translator, locale, logger),
		logger:   logger,
	}
	s.AddHandler(bot.handleInteraction)
	return bot, nil
}

// Observer is the hub observer backed by this bot's session.
func (b *Bot) Observer() *ChannelObserver { return b.observer }

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.ApplicationCommandData().Name == commandEvents {
		b.handler.HandleCommand(s, i)
	}
}

// Run opens the session, registers commands and posts notifications until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("discord: open session: %w", err)
	}
	defer b.session.Close()

	if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", eventsCommand); err != nil {
		b.logger.Warn("discord: register command", "command", eventsCommand.Name, "error", err)
	}
	b.logger.Info("discord bot online", "channel", b.observer.channelID)

	b.observer.Run(ctx)
	return nil
}
