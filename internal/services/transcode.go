package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/coah80/hoist/internal/util"
)

// ProbeVideoCodec returns the codec name of the first video stream, e.g.
// "h264" or "vp9". Empty output means the file has no video stream.
func ProbeVideoCodec(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name",
		"-of", "csv=p=0",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("ffprobe: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ReencodeH264 rewrites path as H.264/AAC with faststart so the result plays
// everywhere. The encode goes to a sibling temp file and replaces the
// original only after ffmpeg succeeds; on failure the temp is removed and
// the original is left exactly as it was.
func ReencodeH264(ctx context.Context, path string) error {
	ext := filepath.Ext(path)
	temp := strings.TrimSuffix(path, ext) + "_h264" + ext

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", path,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "192k",
		"-movflags", "+faststart",
		"-y",
		temp,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(temp)
		return &util.TranscodeError{Err: fmt.Errorf("ffmpeg: %s", lastLine(out))}
	}

	if err := os.Remove(path); err != nil {
		os.Remove(temp)
		return &util.TranscodeError{Err: err}
	}
	if err := os.Rename(temp, path); err != nil {
		return &util.TranscodeError{Err: err}
	}
	return nil
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "unknown error"
}
