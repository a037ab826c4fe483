package discord

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"eventcore/internal/domain/entities"
	"eventcore/internal/ports/output"
	pkgdiscord "eventcore/pkg/discord"
)

var errObserverClosed = errors.New("discord observer closed")

// Poster is the slice of *discordgo.Session the observer posts through.
type Poster interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ChannelObserver posts hub messages to one Discord channel. Posting is done by
// Run; Send only enqueues, so a slow Discord API never holds up the hub.
type ChannelObserver struct {
	poster     Poster
	channelID  string
	translator output.T
	locale     string
	logger     *slog.Logger

	queue chan entities.Notification
	done  chan struct{}
	once  sync.Once
}

func NewChannelObserver(poster Poster, channelID string, translator output.T, locale string, logger *slog.Logger) *ChannelObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChannelObserver{
		poster:     poster,
		channelID:  channelID,
		translator: translator,
		locale:     locale,
		logger:     logger,
		queue:      make(chan entities.Notification, 64),
		done:       make(chan struct{}),
	}
}

func (o *ChannelObserver) ID() string { return "discord:" + o.channelID }

func (o *ChannelObserver) Send(_ context.Context, msg entities.Notification) error {
	select {
	case <-o.done:
		return errObserverClosed
	default:
	}
	select {
	case o.queue <- msg:
	default:
		// Skipped, not failed: the observer stays registered.
		o.logger.Warn("discord: queue full, message skipped", "event_id", msg.EventID, "kind", msg.Kind)
	}
	return nil
}

// Run posts queued messages until ctx is done, then marks the observer closed.
func (o *ChannelObserver) Run(ctx context.Context) {
	defer o.once.Do(func() { close(o.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-o.queue:
			o.post(ctx, msg)
		}
	}
}

func (o *ChannelObserver) post(ctx context.Context, msg entities.Notification) {
	embed := pkgdiscord.BuildNotificationEmbed(o.translator, o.locale, msg)
	if _, err := o.poster.ChannelMessageSendEmbed(o.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		o.logger.Warn("discord: post failed", "channel", o.channelID, "event_id", msg.EventID, "error", err)
	}
}
