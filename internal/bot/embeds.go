package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/coah80/hoist/internal/services"
)

const (
	colorProgress = 0x5865F2
	colorSuccess  = 0x57F287
	colorError    = 0xED4245
)

func progressBar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▓", filled) + strings.Repeat("░", 10-filled)
}

func formatSize(bytes int64) string {
	if bytes <= 0 {
		return "Unknown"
	}
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}

// formatDuration renders seconds as M:SS, or H:MM:SS past the hour mark.
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "Unknown"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func infoEmbed(info *services.VideoInfo) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Duration", Value: formatDuration(info.Duration), Inline: true},
	}
	if info.Uploader != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Channel", Value: info.Uploader, Inline: true,
		})
	}

	e := &discordgo.MessageEmbed{
		Title:       info.Title,
		Description: "Choose download quality:",
		Color:       colorProgress,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: "hoist"},
	}
	if info.Thumbnail != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: info.Thumbnail}
	}
	return e
}

func progressEmbed(title string, percent int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("%s %d%%", progressBar(percent), percent),
		Color:       colorProgress,
		Footer:      &discordgo.MessageEmbedFooter{Text: "hoist"},
	}
}

func successEmbed(title, filename string, fileSize int64, downloadURL string) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{}
	if filename != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "File", Value: filename, Inline: true,
		})
	}
	if fileSize > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Size", Value: formatSize(fileSize), Inline: true,
		})
	}
	if downloadURL != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Download", Value: fmt.Sprintf("[Click here](%s)", downloadURL),
		})
	}

	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  colorSuccess,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: "hoist"},
	}
}

func errorEmbed(title, message string) *discordgo.MessageEmbed {
	if message == "" {
		message = "Something went wrong"
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: message,
		Color:       colorError,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Try a different URL or format"},
	}
}

func helpEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "How to use",
		Description: "1. Send me a YouTube link\n" +
			"2. I'll show you the video info\n" +
			"3. Choose a download quality\n" +
			"4. Grab the file from the link I send back\n\n" +
			"Supported links:\n" +
			"- youtube.com/watch?v=...\n" +
			"- youtu.be/...\n" +
			"- youtube.com/shorts/...",
		Color:  colorProgress,
		Footer: &discordgo.MessageEmbedFooter{Text: "hoist"},
	}
}
