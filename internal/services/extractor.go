package services

import (
	"context"
	"fmt"

	"github.com/coah80/hoist/internal/config"
)

// Quality is one of the download tiers a user can pick. The string values
// double as the button payload tokens.
type Quality string

const (
	QualityBest  Quality = "best"
	Quality720p  Quality = "720p"
	Quality480p  Quality = "480p"
	QualityAudio Quality = "audio"
)

func ParseQuality(s string) (Quality, bool) {
	switch Quality(s) {
	case QualityBest, Quality720p, Quality480p, QualityAudio:
		return Quality(s), true
	}
	return "", false
}

// FormatSelector returns the ranked format expression for a tier. Video
// tiers prefer avc1 video with mp4a audio and degrade stepwise, so a
// missing codec never fails the job outright.
func FormatSelector(q Quality) string {
	switch q {
	case QualityAudio:
		return "bestaudio/best"
	case Quality720p, Quality480p:
		h := config.QualityHeight[string(q)]
		return fmt.Sprintf(
			"bestvideo[height<=%d][vcodec^=avc1]+bestaudio[acodec^=mp4a]/bestvideo[height<=%d][vcodec^=avc1]+bestaudio/best[height<=%d][vcodec^=avc1]/best[height<=%d]",
			h, h, h, h)
	default:
		return "bestvideo[vcodec^=avc1]+bestaudio[acodec^=mp4a]/bestvideo[vcodec^=avc1]+bestaudio/best[vcodec^=avc1]/best"
	}
}

// Phase is the coarse job state carried alongside a percent.
type Phase int

const (
	PhaseDownloading Phase = iota
	PhaseProcessing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseProcessing:
		return "processing"
	case PhaseDone:
		return "done"
	default:
		return "downloading"
	}
}

// ProgressFunc receives raw progress from the engine. Implementations must
// not block; values may arrive on arbitrary goroutines.
type ProgressFunc func(percent int, phase Phase)

// ExtractionOptions is the opaque, environment-specific bag handed to every
// engine call: auth material and network knobs the core has no opinion on.
type ExtractionOptions struct {
	CookiesFile        string
	CookiesFromBrowser string
	RemoteComponents   []string
	ProxyURLs          []string
}

// DownloadRequest describes one fetch at the engine boundary.
type DownloadRequest struct {
	URL      string
	Selector string
	Template string
	Audio    bool
}

// DownloadResult reports where the engine placed the artifact. VideoCodec
// is the probed codec name ("h264", "vp9", ...) or "" when unknown; it is
// never set for audio requests.
type DownloadResult struct {
	Path       string
	VideoCodec string
}

// VideoInfo is the metadata the engine can report without downloading.
type VideoInfo struct {
	Title     string
	Uploader  string
	Duration  int
	Thumbnail string
}

// Extractor is the boundary to the external video engine. Implementations
// shell out or speak an API; callers never know which.
type Extractor interface {
	Probe(ctx context.Context, url string, opts ExtractionOptions) (*VideoInfo, error)
	Download(ctx context.Context, req DownloadRequest, opts ExtractionOptions, progress ProgressFunc) (*DownloadResult, error)
}
