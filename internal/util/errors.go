package util

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAccessDenied = errors.New("access denied")
	ErrNotFound     = errors.New("file not found")
)

// ExtractionError carries the engine's own failure line so ToUserError can
// map it to something readable.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "extraction failed: " + e.Reason
}

// TranscodeError means the post-download re-encode failed. The original
// artifact is left untouched when this is returned.
type TranscodeError struct {
	Err error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("transcode failed: %v", e.Err)
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}

func ToUserError(message string) string {
	msg := strings.ToLower(message)

	if strings.Contains(msg, "cancelled") || strings.Contains(msg, "canceled") {
		return "Download cancelled"
	}
	if strings.Contains(msg, "video unavailable") || strings.Contains(msg, "private video") || strings.Contains(msg, "this content is private") {
		return "This video is unavailable or has been removed"
	}
	if strings.Contains(msg, "live stream") || strings.Contains(msg, "is live") {
		return "Live streams can't be downloaded yet"
	}
	if strings.Contains(msg, "age-restricted") || strings.Contains(msg, "age restricted") || strings.Contains(msg, "confirm your age") {
		return "This video is age-restricted"
	}
	if strings.Contains(msg, "sign in to confirm") || strings.Contains(msg, "sign in to verify") {
		return "YouTube is blocking this request, try again later"
	}
	if strings.Contains(msg, "geo restricted") || strings.Contains(msg, "geo-restricted") || strings.Contains(msg, "not available in your country") {
		return "This video isn't available in the server's region"
	}
	if strings.Contains(msg, "copyright") {
		return "This video was removed for copyright"
	}
	if strings.Contains(msg, "members only") || strings.Contains(msg, "members-only") {
		return "This is a members-only video"
	}
	if strings.Contains(msg, "premium") {
		return "This video requires YouTube Premium"
	}
	if strings.Contains(msg, "http error 403") || strings.Contains(msg, "403 forbidden") {
		return "Access denied, the site is blocking downloads"
	}
	if strings.Contains(msg, "http error 404") || strings.Contains(msg, "404 not found") {
		return "Video not found, it may have been deleted"
	}
	if strings.Contains(msg, "unsupported url") {
		return "This website isn't supported"
	}
	if strings.Contains(msg, "no video formats") || strings.Contains(msg, "requested format not available") {
		return "No downloadable formats found"
	}
	if strings.Contains(msg, "disk space") || strings.Contains(msg, "no space left") {
		return "Server is low on disk space, try again later"
	}
	if strings.Contains(msg, "transcode failed") || strings.Contains(msg, "encoding failed") {
		return "Processing failed"
	}
	if strings.Contains(msg, "rate") && !strings.Contains(msg, "format") {
		return "Rate limited, please wait and try again"
	}
	if strings.Contains(msg, "econnreset") || (strings.Contains(msg, "connection") && !strings.Contains(msg, "connected")) {
		return "Connection dropped, try again"
	}
	if strings.Contains(msg, "etimedout") || strings.Contains(msg, "timed out") || strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return "Connection timed out, try again"
	}
	if strings.Contains(msg, "enotfound") || strings.Contains(msg, "dns") {
		return "Couldn't reach the server, try again"
	}
	return "Download failed"
}
