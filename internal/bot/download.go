package bot

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/coah80/hoist/internal/services"
	"github.com/coah80/hoist/internal/util"
)

// youtubeRe matches watch, short-link, and Shorts URLs, scheme optional.
var youtubeRe = regexp.MustCompile(`(https?://)?(www\.)?(youtube\.com/watch\?v=|youtu\.be/|youtube\.com/shorts/)[\w-]+`)

// editInterval throttles progress edits so a fast download doesn't hammer
// the Discord API.
const editInterval = 2 * time.Second

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	link := youtubeRe.FindString(m.Content)
	if link == "" {
		// Guild channels carry unrelated chatter, so only DMs get a hint.
		if m.GuildID == "" && strings.TrimSpace(m.Content) != "" {
			s.ChannelMessageSend(m.ChannelID, "Please send a valid YouTube link.")
		}
		return
	}

	if !strings.HasPrefix(link, "http") {
		link = "https://" + link
	}

	if v := util.ValidateURL(link); !v.Valid {
		s.ChannelMessageSend(m.ChannelID, v.Error)
		return
	}

	msg, err := s.ChannelMessageSend(m.ChannelID, "Fetching video info...")
	if err != nil {
		b.log.Warn().Err(err).Msg("reply failed")
		return
	}

	go b.offerQualities(s, m.ChannelID, msg.ID, link)
}

// offerQualities probes the link and swaps the placeholder message for the
// video info plus quality buttons. The URL itself never travels inside a
// button, only a short token the store can resolve later.
func (b *Bot) offerQualities(s *discordgo.Session, channelID, messageID, link string) {
	info, err := b.exec.Probe(context.Background(), link)
	if err != nil {
		b.log.Warn().Err(err).Str("url", link).Msg("probe failed")
		s.ChannelMessageEdit(channelID, messageID, "Error fetching video info: "+util.ToUserError(err.Error()))
		return
	}

	key := b.store.Put(link)

	empty := ""
	_, err = s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Content:    &empty,
		Embeds:     &[]*discordgo.MessageEmbed{infoEmbed(info)},
		Components: &[]discordgo.MessageComponent{qualityRow1(key), qualityRow2(key)},
	})
	if err != nil {
		b.log.Warn().Err(err).Msg("info edit failed")
	}
}

func qualityRow1(key string) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: "Best Quality", Style: discordgo.PrimaryButton, CustomID: string(services.QualityBest) + "|" + key},
		discordgo.Button{Label: "720p", Style: discordgo.SecondaryButton, CustomID: string(services.Quality720p) + "|" + key},
	}}
}

func qualityRow2(key string) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: "480p", Style: discordgo.SecondaryButton, CustomID: string(services.Quality480p) + "|" + key},
		discordgo.Button{Label: "Audio Only", Style: discordgo.SecondaryButton, CustomID: string(services.QualityAudio) + "|" + key},
	}}
}

func (b *Bot) handleQualityPick(s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.SplitN(i.MessageComponentData().CustomID, "|", 2)
	if len(parts) != 2 {
		return
	}

	quality, ok := services.ParseQuality(parts[0])
	if !ok {
		return
	}

	link, ok := b.store.Get(parts[1])
	if !ok {
		b.respondUpdate(s, i, "Link expired. Please send the URL again.")
		return
	}

	b.respondUpdate(s, i, "Starting download...")
	go b.runJob(s, i.ChannelID, i.Message.ID, link, quality)
}

// respondUpdate rewrites the button message in place, dropping the embed
// and the buttons so a choice can't be made twice.
func (b *Bot) respondUpdate(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		b.log.Warn().Err(err).Msg("interaction response failed")
	}
}

type jobResult struct {
	artifact *services.Artifact
	err      error
}

// runJob drives one download end to end: the executor runs in the
// background while throttled progress edits land on the chat message,
// which is finally replaced with either a download link or an error.
// Message edits go through the bot token rather than the interaction
// token, which expires long before a slow download completes.
func (b *Bot) runJob(s *discordgo.Session, channelID, messageID, link string, quality services.Quality) {
	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.JobTimeout)
	defer cancel()

	tracker := services.NewTracker()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		services.Watch(watchCtx, tracker, editInterval, func(u services.Update) error {
			return b.editProgress(s, channelID, messageID, u)
		})
	}()

	results := make(chan jobResult, 1)
	go func() {
		var r jobResult
		if quality == services.QualityAudio {
			r.artifact, r.err = b.exec.RunAudioJob(ctx, link, tracker.Record)
		} else {
			r.artifact, r.err = b.exec.RunVideoJob(ctx, link, quality, tracker.Record)
		}
		results <- r
	}()

	res := <-results
	stopWatch()
	<-watchDone

	if res.err != nil {
		b.log.Error().Err(res.err).Str("url", link).Str("quality", string(quality)).Msg("job failed")
		b.notifier.JobFailed(string(quality), link, res.err)
		b.editEmbed(s, channelID, messageID, errorEmbed("Download Failed", util.ToUserError(res.err.Error())))
		return
	}

	downloadURL := b.cfg.PublicBaseURL() + "/download/" + url.PathEscape(res.artifact.Name)
	b.editEmbed(s, channelID, messageID, successEmbed("Ready to download!", res.artifact.Name, res.artifact.Size, downloadURL))
}

func (b *Bot) editProgress(s *discordgo.Session, channelID, messageID string, u services.Update) error {
	var embed *discordgo.MessageEmbed
	if u.Phase == services.PhaseDownloading {
		embed = progressEmbed("Downloading...", u.Percent)
	} else {
		embed = progressEmbed("Processing...", 100)
	}
	return b.editEmbed(s, channelID, messageID, embed)
}

func (b *Bot) editEmbed(s *discordgo.Session, channelID, messageID string, embed *discordgo.MessageEmbed) error {
	empty := ""
	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: channelID,
		ID:      messageID,
		Content: &empty,
		Embeds:  &[]*discordgo.MessageEmbed{embed},
	})
	return err
}
