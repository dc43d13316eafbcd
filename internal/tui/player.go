package tui

import (
	"fmt"
	"net/url"

	"reelfeed/internal/core"
)

// player is the terminal stand-in for a media backend. It accepts the play
// and pause commands the playback controller issues and rejects sources it
// cannot handle, which the controller treats as non-fatal.
type player struct {
	mediaURL string
}

func newPlayer(item core.FeedItem, _ int) core.MediaPlayer {
	return &player{mediaURL: item.MediaURL}
}

func (p *player) Play() error {
	u, err := url.Parse(p.mediaURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("unsupported media source %q", p.mediaURL)
	}
	return nil
}

func (p *player) Pause() error {
	return nil
}
