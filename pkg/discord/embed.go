package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventcore/internal/domain/entities"
	"eventcore/internal/ports/output"
)

const (
	embedColor   = 0x5865F2
	joinColor    = 0x57F287
	leaveColor   = 0xFEE75C
	deletedColor = 0xED4245
)

// FormatPlaces renders "count/max", or the localized unlimited form when max is nil.
func FormatPlaces(t output.T, locale string, maxSlots *int, count int) string {
	if maxSlots == nil {
		return t.T(locale, "embed.places_unlimited", map[string]any{"Count": count})
	}
	return fmt.Sprintf("%d/%d", count, *maxSlots)
}

// NotificationText is the one-line summary of msg, e.g. "alice joined Hike".
func NotificationText(t output.T, locale string, msg entities.Notification) string {
	data := map[string]any{"User": msg.UserID, "Title": msg.Title}
	switch msg.Kind {
	case entities.KindParticipantChange:
		return t.T(locale, "notify."+string(msg.Action), data)
	case entities.KindEventCreated:
		return t.T(locale, "notify.event_created", data)
	case entities.KindEventUpdated:
		return t.T(locale, "notify.event_updated", data)
	case entities.KindEventDeleted:
		return t.T(locale, "notify.event_deleted", data)
	}
	return msg.Title
}

func colorFor(msg entities.Notification) int {
	switch {
	case msg.Kind == entities.KindEventDeleted:
		return deletedColor
	case msg.Action == entities.ActionJoin:
		return joinColor
	case msg.Action == entities.ActionLeave:
		return leaveColor
	}
	return embedColor
}

// BuildNotificationEmbed renders a hub message for a channel post. Only counters
// are shown, never the member list.
func BuildNotificationEmbed(t output.T, locale string, msg entities.Notification) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: NotificationText(t, locale, msg),
		Color: colorFor(msg),
		Fields: []*discordgo.MessageEmbedField{{
			Name:   t.T(locale, "embed.places", nil),
			Value:  FormatPlaces(t, locale, msg.MaxParticipants, msg.ParticipantCount),
			Inline: true,
		}},
		Footer: &discordgo.MessageEmbedFooter{Text: t.T(locale, "embed.footer", map[string]any{"ID": msg.EventID.String()})},
	}
	if !msg.SentAt.IsZero() {
		embed.Timestamp = msg.SentAt.Format(time.RFC3339)
	}
	return embed
}

// BuildEventEmbed renders an event for the /events listing.
func BuildEventEmbed(t output.T, locale string, e entities.EventView, loc *time.Location) *discordgo.MessageEmbed {
	if loc == nil {
		loc = time.UTC
	}
	var b strings.Builder
	if e.ShortDescription != "" {
		b.WriteString(e.ShortDescription)
	} else {
		b.WriteString(e.Description)
	}
	fmt.Fprintf(&b, "\n\n**%s** → **%s**", e.Start.In(loc).Format("02/01/2006 15:04"), e.End.In(loc).Format("02/01/2006 15:04"))
	if e.City != "" {
		fmt.Fprintf(&b, "\n%s", e.City)
	}
	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: b.String(),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{{
			Name:   t.T(locale, "embed.places", nil),
			Value:  FormatPlaces(t, locale, e.MaxParticipants, len(e.Participants)),
			Inline: true,
		}},
		Footer: &discordgo.MessageEmbedFooter{Text: t.T(locale, "embed.footer", map[string]any{"ID": e.ID.String()})},
	}
	if e.ImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.ImageURL}
	}
	return embed
}
