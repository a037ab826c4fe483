package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"eventcore/internal/domain"
	"eventcore/internal/infrastructure/i18n"
	pkgdiscord "eventcore/pkg/discord"
)

const (
	commandEvents = "events"
	// Discord accepts at most 10 embeds per message.
	maxEmbeds = 10
)

var eventsCommand = &discordgo.ApplicationCommand{
	Name:        commandEvents,
	Description: "List upcoming and active events",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Lister les événements à venir et en cours",
	},
}

// HandleCommand answers /events with one embed per upcoming or active event.
func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	locale := string(i.Locale)
	embeds, err := h.eventEmbeds(context.Background(), locale)
	if err != nil {
		respondEphemeral(s, i.Interaction, i18n.ErrorMessage(h.translator, locale, err))
		return
	}
	if len(embeds) == 0 {
		respondEphemeral(s, i.Interaction, h.translator.T(locale, "embed.no_events", nil))
		return
	}
	respondEmbeds(s, i.Interaction, embeds)
}

func (h *Handler) eventEmbeds(ctx context.Context, locale string) ([]*discordgo.MessageEmbed, error) {
	views, err := h.eventUseCase.ListEvents(ctx, "")
	if err != nil {
		return nil, err
	}
	embeds := make([]*discordgo.MessageEmbed, 0, maxEmbeds)
	for _, v := range views {
		if v.Status == domain.StatusPast {
			continue
		}
		embeds = append(embeds, pkgdiscord.BuildEventEmbed(h.translator, locale, v, h.location))
		if len(embeds) == maxEmbeds {
			break
		}
	}
	return embeds, nil
}
