package util

import (
	"os/exec"
)

// CheckDependencies verifies the external tools every job shells out to.
// Missing tools are reported but not fatal so the server can still serve
// already-downloaded files.
func CheckDependencies() {
	log := GetLogger("deps")

	for _, dep := range []string{"yt-dlp", "ffmpeg", "ffprobe"} {
		path, err := exec.LookPath(dep)
		if err != nil {
			log.Warn().Str("dependency", dep).Msg("not found in PATH, downloads will fail")
			continue
		}
		log.Debug().Str("dependency", dep).Str("path", path).Msg("found")
	}
}
