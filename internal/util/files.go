package util

import (
	"regexp"
	"strings"
)

// The class includes '%' so sanitized titles can be embedded in yt-dlp
// output templates without expanding.
var unsafeFilenameRe = regexp.MustCompile(`[<>:"/\\|?*%\x00-\x1f]`)
var multiSpaceRe = regexp.MustCompile(`\s+`)

func SanitizeFilename(filename string) string {
	s := unsafeFilenameRe.ReplaceAllString(filename, "_")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
