package services

import (
	"context"
	"time"

	"github.com/coah80/hoist/internal/util"
)

// Update is one observed progress value.
type Update struct {
	Percent int
	Phase   Phase
}

// Terminal reports whether no further download progress can follow.
func (u Update) Terminal() bool {
	return u.Percent >= 100 || u.Phase != PhaseDownloading
}

// Tracker holds the latest progress value for one job. Record never blocks:
// when the previous value was not consumed yet it is dropped, so the channel
// always carries the newest state rather than a backlog.
type Tracker struct {
	updates chan Update
}

func NewTracker() *Tracker {
	return &Tracker{updates: make(chan Update, 1)}
}

// Record satisfies ProgressFunc.
func (t *Tracker) Record(percent int, phase Phase) {
	u := Update{Percent: percent, Phase: phase}
	for {
		select {
		case t.updates <- u:
			return
		default:
		}
		select {
		case <-t.updates:
		default:
		}
	}
}

// Latest pops the most recent unconsumed value, if any.
func (t *Tracker) Latest() (Update, bool) {
	select {
	case u := <-t.updates:
		return u, true
	default:
		return Update{}, false
	}
}

// Watch republishes tracker values through notify once per interval until a
// terminal value has been published or ctx is cancelled. A value equal to
// the last published one is skipped. Publish failures are logged and
// swallowed here and only here: progress is best-effort and must never take
// a job down with it.
func Watch(ctx context.Context, t *Tracker, interval time.Duration, notify func(Update) error) {
	log := util.GetLogger("progress")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last Update
	var published bool

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u, ok := t.Latest()
			if !ok {
				continue
			}
			if !published || u != last {
				if err := notify(u); err != nil {
					log.Debug().Err(err).Int("percent", u.Percent).Msg("progress publish failed")
				}
				last = u
				published = true
			}
			if u.Terminal() {
				return
			}
		}
	}
}
