// Package alerts posts operational notifications to a Discord webhook.
// Every send is fire-and-forget: a broken or missing webhook never blocks
// or fails the caller.
package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coah80/hoist/internal/config"
	"github.com/coah80/hoist/internal/util"
)

const (
	colorOrange = 0xFFA500
	colorRed    = 0xFF4444
	colorGreen  = 0x2ECC71
)

type embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Color       int     `json:"color"`
	Fields      []field `json:"fields,omitempty"`
	Timestamp   string  `json:"timestamp"`
	Footer      footer  `json:"footer"`
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type footer struct {
	Text string `json:"text"`
}

type payload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds"`
}

// Notifier delivers alerts to a single webhook. The zero-value URL
// disables it entirely, so callers never need to nil-check.
type Notifier struct {
	webhookURL string
	pingUserID string
	log        zerolog.Logger

	mu        sync.Mutex
	cooldowns map[string]time.Time
}

func NewNotifier(webhookURL, pingUserID string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		pingUserID: pingUserID,
		log:        util.GetLogger("alerts"),
		cooldowns:  make(map[string]time.Time),
	}
}

func (n *Notifier) send(category string, cooldown time.Duration, ping bool, color int, title, description string, fields map[string]string) {
	if n == nil || n.webhookURL == "" {
		return
	}

	if cooldown > 0 {
		n.mu.Lock()
		if last, ok := n.cooldowns[category]; ok && time.Since(last) < cooldown {
			n.mu.Unlock()
			return
		}
		n.cooldowns[category] = time.Now()
		n.mu.Unlock()
	}

	var fs []field
	for name, value := range fields {
		if value == "" {
			continue
		}
		fs = append(fs, field{Name: name, Value: truncate(value, 1024), Inline: true})
	}

	e := embed{
		Title:       title,
		Description: truncate(description, 2048),
		Color:       color,
		Fields:      fs,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer:      footer{Text: "hoist"},
	}

	p := payload{Embeds: []embed{e}}
	if ping && n.pingUserID != "" {
		p.Content = fmt.Sprintf("<@%s>", n.pingUserID)
	}

	body, err := json.Marshal(p)
	if err != nil {
		return
	}

	go func() {
		resp, err := http.Post(n.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			n.log.Warn().Err(err).Str("category", category).Msg("webhook post failed")
			return
		}
		resp.Body.Close()
	}()
}

// Started announces that the process is up and serving.
func (n *Notifier) Started(port string) {
	n.send("lifecycle", 0, false, colorGreen, "Bot Started",
		fmt.Sprintf("hoist %s is online, file server on port %s", config.Version, port), nil)
}

// Stopping announces a graceful shutdown.
func (n *Notifier) Stopping() {
	n.send("lifecycle", 0, false, colorOrange, "Bot Stopping",
		"hoist is shutting down", nil)
}

// JobFailed reports a download job that ended in an error. Bursts of
// failures collapse into one ping per cooldown window.
func (n *Notifier) JobFailed(quality, url string, err error) {
	n.send("job-failed", 5*time.Second, true, colorRed, "Download Failed",
		"A download job returned an error", map[string]string{
			"Quality": quality,
			"URL":     url,
			"Error":   err.Error(),
		})
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
