package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
)

// findPlayer locates an external media player in PATH, preferring VLC.
func findPlayer() (string, error) {
	for _, candidate := range []string{"vlc", "mplayer"} {
		if p, err := exec.LookPath(candidate); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no media player found in PATH (tried vlc, mplayer)")
}

// playPaths exports the given files to a temporary XSPF playlist and hands
// it to the external player, blocking until playback ends or is
// interrupted.
func playPaths(paths []string, extractor MetadataExtractor) error {
	player, err := findPlayer()
	if err != nil {
		return err
	}

	playlist := filepath.Join(os.TempDir(), "plui-playlist.xspf")
	if err := exportXSPFPlaylist(paths, extractor, playlist); err != nil {
		return err
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)

	cmd := exec.Command(player, playlist)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-c:
		fmt.Println("\nStopping playback...")
		cmd.Process.Kill()
		<-done
		return nil
	case err := <-done:
		return err
	}
}
