package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/coah80/hoist/internal/config"
	"github.com/coah80/hoist/internal/util"
)

var percentRe = regexp.MustCompile(`([\d.]+)%`)
var ytdlpErrorRe = regexp.MustCompile(`(?i)ERROR[:\s]+(.+?)(?:\n|$)`)

// ParseProgressPercent extracts the percent from a yt-dlp progress line.
// Returns -1 when the line carries none.
func ParseProgressPercent(text string) float64 {
	if m := percentRe.FindStringSubmatch(text); len(m) > 1 {
		if p, err := strconv.ParseFloat(m[1], 64); err == nil {
			return p
		}
	}
	return -1
}

// YtdlpExtractor shells out to yt-dlp. It satisfies Extractor.
type YtdlpExtractor struct {
	log zerolog.Logger
}

func NewYtdlpExtractor() *YtdlpExtractor {
	return &YtdlpExtractor{log: util.GetLogger("ytdlp")}
}

func (y *YtdlpExtractor) Probe(ctx context.Context, url string, opts ExtractionOptions) (*VideoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, config.ProbeTimeout)
	defer cancel()

	args := engineArgs(opts)
	args = append(args,
		"--no-playlist",
		"--print", "%(title)s",
		"--print", "%(uploader)s",
		"--print", "%(duration)s",
		"--print", "%(thumbnail)s",
		url,
	)

	out, err := exec.CommandContext(ctx, "yt-dlp", args...).Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &util.ExtractionError{Reason: "metadata fetch timed out"}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &util.ExtractionError{Reason: extractErrorLine(string(exitErr.Stderr))}
		}
		return nil, fmt.Errorf("starting yt-dlp: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	get := func(i int) string {
		if i >= len(lines) {
			return ""
		}
		v := strings.TrimSpace(lines[i])
		if v == "NA" {
			return ""
		}
		return v
	}

	info := &VideoInfo{
		Title:     get(0),
		Uploader:  get(1),
		Thumbnail: get(3),
	}
	if info.Title == "" {
		info.Title = "download"
	}
	if d, err := strconv.ParseFloat(get(2), 64); err == nil {
		info.Duration = int(d)
	}
	return info, nil
}

func (y *YtdlpExtractor) Download(ctx context.Context, req DownloadRequest, opts ExtractionOptions, progress ProgressFunc) (*DownloadResult, error) {
	cmd := exec.CommandContext(ctx, "yt-dlp", downloadArgs(req, opts)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start yt-dlp: %w", err)
	}

	var stderrOutput strings.Builder
	var lastPercent float64
	var mu sync.Mutex

	report := func(line string) {
		p := ParseProgressPercent(line)
		if p < 0 {
			return
		}
		mu.Lock()
		shouldReport := p > 0 && (p > lastPercent+2 || p >= 100)
		if shouldReport {
			lastPercent = p
		}
		mu.Unlock()
		if shouldReport && progress != nil {
			progress(int(p), PhaseDownloading)
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			report(scanner.Text())
		}
		return scanner.Err()
	})
	g.Go(func() error {
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			stderrOutput.WriteString(line + "\n")
			if strings.Contains(line, "[download]") && strings.Contains(line, "%") {
				report(line)
			}
		}
		return scanner.Err()
	})

	scanErr := g.Wait()
	if err := cmd.Wait(); err != nil {
		return nil, &util.ExtractionError{Reason: extractErrorLine(stderrOutput.String())}
	}
	if scanErr != nil {
		y.log.Debug().Err(scanErr).Msg("pipe scan ended early")
	}

	if progress != nil {
		progress(100, PhaseProcessing)
	}

	path, err := findOutput(req)
	if err != nil {
		return nil, err
	}

	res := &DownloadResult{Path: path}
	if !req.Audio {
		codec, err := ProbeVideoCodec(ctx, path)
		if err != nil {
			y.log.Debug().Err(err).Str("path", path).Msg("codec probe failed")
		} else {
			res.VideoCodec = codec
		}
	}
	return res, nil
}

// engineArgs are the flags shared by every invocation, derived from the
// opaque engine options.
func engineArgs(opts ExtractionOptions) []string {
	var args []string
	if opts.CookiesFile != "" {
		args = append(args, "--cookies", opts.CookiesFile)
	}
	if opts.CookiesFromBrowser != "" {
		args = append(args, "--cookies-from-browser", opts.CookiesFromBrowser)
	}
	for _, rc := range opts.RemoteComponents {
		args = append(args, "--remote-components", rc)
	}
	if proxy := util.PickProxy(opts.ProxyURLs); proxy != "" {
		args = append(args, "--proxy", proxy)
	}
	return args
}

func downloadArgs(req DownloadRequest, opts ExtractionOptions) []string {
	args := engineArgs(opts)
	args = append(args,
		"--no-playlist",
		"--newline",
		"--progress-template", "%(progress._percent_str)s",
		"-f", req.Selector,
		"-o", req.Template,
	)
	if req.Audio {
		args = append(args, "-x", "--audio-format", "mp3", "--audio-quality", "192K")
	} else {
		args = append(args,
			"--merge-output-format", "mp4",
			"--postprocessor-args", "Merger:-movflags +faststart",
		)
	}
	return append(args, req.URL)
}

// findOutput locates the artifact the engine produced for req. The template
// ends in ".%(ext)s", the only field yt-dlp expands, so the final name is
// the template base plus whatever extension the engine chose.
func findOutput(req DownloadRequest) (string, error) {
	dir := filepath.Dir(req.Template)
	base := strings.TrimSuffix(filepath.Base(req.Template), ".%(ext)s")

	if req.Audio {
		path := filepath.Join(dir, base+".mp3")
		if _, err := os.Stat(path); err != nil {
			return "", &util.ExtractionError{Reason: "downloaded file not found"}
		}
		return path, nil
	}

	// Merged streams always land in mp4; a premuxed single file may keep
	// its native container.
	if path := filepath.Join(dir, base+".mp4"); statOK(path) {
		return path, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading output dir: %w", err)
	}
	prefix := base + "."
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if strings.HasSuffix(name, ".part") || strings.Contains(name, ".part-Frag") {
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(name), ".")
		if _, isAudio := config.AudioMIMEs[ext]; isAudio {
			continue
		}
		return filepath.Join(dir, name), nil
	}
	return "", &util.ExtractionError{Reason: "downloaded file not found"}
}

func statOK(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func extractErrorLine(stderr string) string {
	if m := ytdlpErrorRe.FindStringSubmatch(stderr); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return "download failed"
}
