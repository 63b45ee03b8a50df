package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/harmony/internal/library"
	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/player"
)

type searchDoneMsg struct {
	term    string
	results []models.Track
	recent  []string
	err     error
}

// playerChangedMsg signals that coordinator state should be re-read.
type playerChangedMsg struct{}

type playerErrorMsg player.ErrorEvent

type syncMsg library.SyncResult

// waitForPlayer blocks until the coordinator publishes anything.
func waitForPlayer(sub *player.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-sub.StateChanged:
		case <-sub.TrackChanged:
		case <-sub.QueueChanged:
		case <-sub.ModeChanged:
		case <-sub.ProgressChanged:
		case <-sub.VolumeChanged:
		case <-sub.LyricsChanged:
		case e := <-sub.Error:
			return playerErrorMsg(e)
		case <-sub.Done:
			return nil
		}
		return playerChangedMsg{}
	}
}

func waitForSync(syncs <-chan library.SyncResult) tea.Cmd {
	if syncs == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-syncs
		if !ok {
			return nil
		}
		return syncMsg(r)
	}
}
