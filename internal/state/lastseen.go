package state

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/mpdlive/internal/status"
)

// LastSeen is the most recent song observed on a player.
type LastSeen struct {
	File   string
	Title  string
	Artist string
	Album  string
	At     time.Time
}

// LastSeenFrom extracts the current song of s. ok is false when nothing
// is queued.
func LastSeenFrom(s status.Snapshot, at time.Time) (LastSeen, bool) {
	if s.Song.IsZero() {
		return LastSeen{}, false
	}
	return LastSeen{
		File:   s.Song.File,
		Title:  s.Song.Title,
		Artist: s.Song.Artist,
		Album:  s.Song.Album,
		At:     at,
	}, true
}

func getLastSeen(db *sql.DB, player string) (*LastSeen, error) {
	row := db.QueryRow(`
		SELECT file, title, artist, album, seen_at
		FROM last_seen WHERE player = ?
	`, player)

	var seen LastSeen
	var title, artist, album sql.NullString
	var seenAt int64

	err := row.Scan(&seen.File, &title, &artist, &album, &seenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nothing recorded yet is valid
	}
	if err != nil {
		return nil, err
	}

	seen.Title = nullStringValue(title)
	seen.Artist = nullStringValue(artist)
	seen.Album = nullStringValue(album)
	seen.At = time.Unix(seenAt, 0)

	return &seen, nil
}

func saveLastSeen(db *sql.DB, player string, seen LastSeen) error {
	_, err := db.Exec(`
		INSERT INTO last_seen (player, file, title, artist, album, seen_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(player) DO UPDATE SET
			file = excluded.file,
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			seen_at = excluded.seen_at
	`, player, seen.File, nullString(seen.Title), nullString(seen.Artist), nullString(seen.Album), seen.At.Unix())
	return err
}
