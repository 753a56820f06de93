// Package bot is the Discord front end. It watches messages for YouTube
// links and turns a quality-button choice into a job for the download
// executor.
package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/coah80/hoist/internal/alerts"
	"github.com/coah80/hoist/internal/config"
	"github.com/coah80/hoist/internal/services"
	"github.com/coah80/hoist/internal/util"
)

type Bot struct {
	session  *discordgo.Session
	cfg      *config.Config
	store    *services.TokenStore
	exec     *services.Executor
	notifier *alerts.Notifier
	cmdIDs   []string
	log      zerolog.Logger
}

func New(cfg *config.Config, store *services.TokenStore, exec *services.Executor, notifier *alerts.Notifier) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		session:  s,
		cfg:      cfg,
		store:    store,
		exec:     exec,
		notifier: notifier,
		log:      util.GetLogger("bot"),
	}

	s.AddHandler(b.handleMessage)
	s.AddHandler(b.handleInteraction)
	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return b, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return err
	}

	b.log.Info().Str("user", b.session.State.User.Username).Msg("logged in")

	for _, cmd := range b.commandDefinitions() {
		created, err := b.session.ApplicationCommandCreate(b.cfg.DiscordAppID, "", cmd)
		if err != nil {
			b.log.Warn().Err(err).Str("command", cmd.Name).Msg("command registration failed")
			continue
		}
		b.cmdIDs = append(b.cmdIDs, created.ID)
		b.log.Debug().Str("command", created.Name).Msg("registered command")
	}

	return nil
}

func (b *Bot) Stop() {
	for _, id := range b.cmdIDs {
		b.session.ApplicationCommandDelete(b.cfg.DiscordAppID, "", id)
	}
	b.session.Close()
}

func (b *Bot) commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "help",
			Description: "How to use the downloader",
			IntegrationTypes: &[]discordgo.ApplicationIntegrationType{
				discordgo.ApplicationIntegrationGuildInstall,
				discordgo.ApplicationIntegrationUserInstall,
			},
			Contexts: &[]discordgo.InteractionContextType{
				discordgo.InteractionContextGuild,
				discordgo.InteractionContextBotDM,
				discordgo.InteractionContextPrivateChannel,
			},
		},
		{
			Name:        "files",
			Description: "Browse downloaded files",
			IntegrationTypes: &[]discordgo.ApplicationIntegrationType{
				discordgo.ApplicationIntegrationGuildInstall,
				discordgo.ApplicationIntegrationUserInstall,
			},
			Contexts: &[]discordgo.InteractionContextType{
				discordgo.InteractionContextGuild,
				discordgo.InteractionContextBotDM,
				discordgo.InteractionContextPrivateChannel,
			},
		},
	}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		b.handleQualityPick(s, i)
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "help":
			b.handleHelp(s, i)
		case "files":
			b.handleFiles(s, i)
		}
	}
}

func (b *Bot) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{helpEmbed()},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.log.Warn().Err(err).Msg("help response failed")
	}
}

func (b *Bot) handleFiles(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Browse all downloads:\n" + b.cfg.PublicBaseURL(),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.log.Warn().Err(err).Msg("files response failed")
	}
}
