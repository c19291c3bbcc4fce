package notify

import (
	"context"
	"strings"

	"github.com/llehouerou/mpdlive/internal/cover"
	"github.com/llehouerou/mpdlive/internal/hub"
	"github.com/llehouerou/mpdlive/internal/status"
)

const (
	defaultIcon    = "audio-x-generic"
	defaultTimeout = 5000
)

// Announcer turns song changes into a single, replaced-in-place
// now-playing notification.
type Announcer struct {
	n        Notifier
	musicDir string

	last status.Song
	id   uint32
}

// NewAnnouncer creates an Announcer. musicDir, if set, is searched for
// album art.
func NewAnnouncer(n Notifier, musicDir string) *Announcer {
	return &Announcer{n: n, musicDir: musicDir}
}

// Update announces s if its song differs from the last one announced.
// Elapsed-only updates and state changes are ignored.
func (a *Announcer) Update(s status.Snapshot) error {
	if s.Song.IsZero() || s.Song.File == a.last.File {
		return nil
	}
	a.last = s.Song

	notif := NowPlaying(s.Song)
	notif.ReplacesID = a.id
	if art := cover.Find(a.musicDir, s.Song.File); art != "" {
		notif.Icon = art
	}

	id, err := a.n.Notify(notif)
	if err != nil {
		return err
	}
	a.id = id
	return nil
}

// Dismiss closes the current notification, if any.
func (a *Announcer) Dismiss() error {
	if a.id == 0 {
		return nil
	}
	id := a.id
	a.id = 0
	return a.n.Close(id)
}

// Run announces every snapshot from sub until ctx ends or the feed
// closes. Notification errors are passed to onErr and do not stop it.
func (a *Announcer) Run(ctx context.Context, sub *hub.Subscription, onErr func(error)) {
	defer sub.Unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case s := <-sub.C:
			if err := a.Update(s); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}

// NowPlaying builds the notification for song.
func NowPlaying(song status.Song) Notification {
	var body []string
	if song.Artist != "" {
		body = append(body, song.Artist)
	}
	if song.Album != "" {
		body = append(body, song.Album)
	}
	return Notification{
		Title:     song.DisplayTitle(),
		Body:      strings.Join(body, " - "),
		Icon:      defaultIcon,
		Timeout:   defaultTimeout,
		Urgency:   UrgencyLow,
		Transient: true,
	}
}
