package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

var Version = "dev"

// Config is the process configuration, populated from the environment.
// DISCORD_TOKEN and DISCORD_APP_ID are the only required settings.
type Config struct {
	DiscordToken string `envconfig:"DISCORD_TOKEN" required:"true"`
	DiscordAppID string `envconfig:"DISCORD_APP_ID" required:"true"`

	DownloadDir string `envconfig:"DOWNLOAD_DIR"`
	Port        string `envconfig:"PORT" default:"8080"`
	PublicHost  string `envconfig:"PUBLIC_HOST"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	AlertWebhookURL string `envconfig:"ALERT_WEBHOOK_URL"`
	AlertPingUserID string `envconfig:"ALERT_PING_USER_ID"`

	CookiesFile      string   `envconfig:"COOKIES_FILE"`
	BrowserCookies   string   `envconfig:"BROWSER_COOKIES"`
	RemoteComponents []string `envconfig:"REMOTE_COMPONENTS"`
	ProxyURLs        []string `envconfig:"PROXY_URLS"`

	JobTimeout      time.Duration `envconfig:"JOB_TIMEOUT" default:"1h"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.DownloadDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.DownloadDir = filepath.Join(home, "Downloads", "hoist")
	}
	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating download dir: %w", err)
	}

	if cfg.PublicHost == "" {
		cfg.PublicHost = localIP()
	}

	return &cfg, nil
}

// PublicBaseURL is the externally reachable root of the file server,
// used when building download links for chat messages.
func (c *Config) PublicBaseURL() string {
	return fmt.Sprintf("http://%s:%s", c.PublicHost, c.Port)
}

// localIP finds the LAN address by opening a throwaway UDP socket toward a
// public resolver. No packets are actually sent.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "localhost"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

const (
	DiskSpaceMinGB  = 5
	MaxURLLength    = 2048
	RateLimitWindow = 60 * time.Second
	RateLimitMax    = 60
	ProbeTimeout    = 30 * time.Second
)

var QualityHeight = map[string]int{
	"720p": 720,
	"480p": 480,
}

var ContainerMIMEs = map[string]string{
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mkv":  "video/x-matroska",
	"mov":  "video/quicktime",
}

var AudioMIMEs = map[string]string{
	"mp3":  "audio/mpeg",
	"m4a":  "audio/mp4",
	"opus": "audio/opus",
	"wav":  "audio/wav",
	"flac": "audio/flac",
}
