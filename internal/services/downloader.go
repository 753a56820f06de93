package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coah80/hoist/internal/config"
	"github.com/coah80/hoist/internal/util"
)

// Artifact is a completed media file under the download root.
type Artifact struct {
	Path string
	Name string
	Size int64
}

// Executor runs download jobs end to end, from format selection through
// the extraction engine to container normalization, reporting progress
// along the way. It never retries; a failed job surfaces one error.
type Executor struct {
	extractor Extractor
	opts      ExtractionOptions
	dir       string
	reencode  func(ctx context.Context, path string) error
	diskSpace func(path string) (util.DiskSpace, error)
	log       zerolog.Logger
}

func NewExecutor(extractor Extractor, opts ExtractionOptions, dir string) *Executor {
	return &Executor{
		extractor: extractor,
		opts:      opts,
		dir:       dir,
		reencode:  ReencodeH264,
		diskSpace: util.GetDiskSpace,
		log:       util.GetLogger("executor"),
	}
}

// Probe exposes engine metadata lookup to the adapter.
func (e *Executor) Probe(ctx context.Context, url string) (*VideoInfo, error) {
	return e.extractor.Probe(ctx, url, e.opts)
}

// RunVideoJob downloads url at the given tier and guarantees an H.264 mp4
// artifact: when the engine hands back another codec, the file is re-encoded
// in place before the artifact is returned.
func (e *Executor) RunVideoJob(ctx context.Context, url string, quality Quality, onProgress ProgressFunc) (*Artifact, error) {
	jobID := uuid.New().String()[:8]
	log := e.log.With().Str("job", jobID).Str("quality", string(quality)).Logger()

	if err := e.checkDiskSpace(); err != nil {
		return nil, err
	}

	info, err := e.extractor.Probe(ctx, url, e.opts)
	if err != nil {
		return nil, err
	}

	req := DownloadRequest{
		URL:      url,
		Selector: FormatSelector(quality),
		Template: e.outputTemplate(info.Title),
	}

	log.Info().Str("title", info.Title).Msg("starting download")

	res, err := e.extractor.Download(ctx, req, e.opts, onProgress)
	if err != nil {
		return nil, err
	}

	if res.VideoCodec != "" && res.VideoCodec != "h264" {
		log.Info().Str("codec", res.VideoCodec).Msg("re-encoding to h264")
		if err := e.reencode(ctx, res.Path); err != nil {
			return nil, err
		}
	}

	artifact, err := statArtifact(res.Path)
	if err != nil {
		return nil, err
	}

	if onProgress != nil {
		onProgress(100, PhaseDone)
	}
	log.Info().Str("file", artifact.Name).Str("size", humanize.Bytes(uint64(artifact.Size))).Msg("download complete")
	return artifact, nil
}

// RunAudioJob downloads the best audio for url and extracts it to mp3.
func (e *Executor) RunAudioJob(ctx context.Context, url string, onProgress ProgressFunc) (*Artifact, error) {
	jobID := uuid.New().String()[:8]
	log := e.log.With().Str("job", jobID).Str("quality", "audio").Logger()

	if err := e.checkDiskSpace(); err != nil {
		return nil, err
	}

	info, err := e.extractor.Probe(ctx, url, e.opts)
	if err != nil {
		return nil, err
	}

	req := DownloadRequest{
		URL:      url,
		Selector: FormatSelector(QualityAudio),
		Template: e.outputTemplate(info.Title),
		Audio:    true,
	}

	log.Info().Str("title", info.Title).Msg("starting audio download")

	res, err := e.extractor.Download(ctx, req, e.opts, onProgress)
	if err != nil {
		return nil, err
	}

	artifact, err := statArtifact(res.Path)
	if err != nil {
		return nil, err
	}

	if onProgress != nil {
		onProgress(100, PhaseDone)
	}
	log.Info().Str("file", artifact.Name).Str("size", humanize.Bytes(uint64(artifact.Size))).Msg("download complete")
	return artifact, nil
}

// outputTemplate pins the output name before the engine runs: the sanitized
// title is embedded literally, leaving ".%(ext)s" as the only expansion.
func (e *Executor) outputTemplate(title string) string {
	base := util.SanitizeFilename(title)
	if base == "" {
		base = "download"
	}
	return filepath.Join(e.dir, base+".%(ext)s")
}

func (e *Executor) checkDiskSpace() error {
	ds, err := e.diskSpace(e.dir)
	if err != nil {
		return nil
	}
	if ds.FreeGB() < config.DiskSpaceMinGB {
		e.log.Warn().Str("free", humanize.IBytes(ds.Free)).Msg("refusing job, low disk space")
		return fmt.Errorf("not enough disk space: %s free", humanize.IBytes(ds.Free))
	}
	return nil
}

func statArtifact(path string) (*Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &util.ExtractionError{Reason: "output missing after download"}
	}
	return &Artifact{Path: path, Name: info.Name(), Size: info.Size()}, nil
}
