package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToUserError(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "cancelled",
			message: "download cancelled by user",
			want:    "Download cancelled",
		},
		{
			name:    "unavailable",
			message: "ERROR: Video unavailable",
			want:    "This video is unavailable or has been removed",
		},
		{
			name:    "private",
			message: "extraction failed: Private video. Sign in if you've been granted access",
			want:    "This video is unavailable or has been removed",
		},
		{
			name:    "live",
			message: "this video is live stream content",
			want:    "Live streams can't be downloaded yet",
		},
		{
			name:    "age restricted",
			message: "Sign in to confirm your age. This video may be age-restricted",
			want:    "This video is age-restricted",
		},
		{
			name:    "bot check",
			message: "Sign in to confirm you're not a bot",
			want:    "YouTube is blocking this request, try again later",
		},
		{
			name:    "geo blocked",
			message: "Video unavailable. This video is not available in your country",
			want:    "This video is unavailable or has been removed",
		},
		{
			name:    "geo restricted",
			message: "ERROR: This video is geo restricted",
			want:    "This video isn't available in the server's region",
		},
		{
			name:    "copyright",
			message: "video removed due to a copyright claim",
			want:    "This video was removed for copyright",
		},
		{
			name:    "members only",
			message: "Join this channel to get access to members-only content",
			want:    "This is a members-only video",
		},
		{
			name:    "forbidden",
			message: "unable to download video data: HTTP Error 403: Forbidden",
			want:    "Access denied, the site is blocking downloads",
		},
		{
			name:    "not found",
			message: "HTTP Error 404: Not Found",
			want:    "Video not found, it may have been deleted",
		},
		{
			name:    "unsupported site",
			message: "Unsupported URL: https://example.com/clip",
			want:    "This website isn't supported",
		},
		{
			name:    "no formats",
			message: "ERROR: No video formats found",
			want:    "No downloadable formats found",
		},
		{
			name:    "disk space",
			message: "not enough disk space: 2.1 GiB free",
			want:    "Server is low on disk space, try again later",
		},
		{
			name:    "transcode",
			message: "transcode failed: ffmpeg: exit status 1",
			want:    "Processing failed",
		},
		{
			name:    "rate limited",
			message: "too many requests, rate limited by origin",
			want:    "Rate limited, please wait and try again",
		},
		{
			name:    "timeout",
			message: "context deadline exceeded",
			want:    "Connection timed out, try again",
		},
		{
			name:    "connection reset",
			message: "read tcp: connection reset by peer",
			want:    "Connection dropped, try again",
		},
		{
			name:    "dns",
			message: "dial tcp: lookup youtube.com: dns failure",
			want:    "Couldn't reach the server, try again",
		},
		{
			name:    "anything else",
			message: "some inscrutable engine failure",
			want:    "Download failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToUserError(tt.message))
		})
	}
}

func TestExtractionError(t *testing.T) {
	err := &ExtractionError{Reason: "Video unavailable"}
	assert.Equal(t, "extraction failed: Video unavailable", err.Error())
}

func TestTranscodeErrorUnwrap(t *testing.T) {
	inner := errors.New("exit status 1")
	err := &TranscodeError{Err: inner}

	assert.Contains(t, err.Error(), "transcode failed")
	assert.ErrorIs(t, err, inner)
}
