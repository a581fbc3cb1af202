// Package player launches an external mpv process and supervises it over
// mpv's JSON IPC socket. It knows nothing about where the media URL came
// from; the caller maps progress callbacks to server reporting.
package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// Config controls how mpv is launched.
type Config struct {
	Command      string        // player binary, "mpv" when empty
	Args         []string      // extra args appended before the URL
	SocketDir    string        // where IPC sockets live, os.TempDir() when empty
	PollInterval time.Duration // status poll cadence, 1s when zero
}

// Status is one observation of the playing process.
type Status struct {
	Position float64 // seconds
	Duration float64 // seconds
	Paused   bool
	Running  bool
}

// Percent returns how far playback got, 0..100.
func (s Status) Percent() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return s.Position / s.Duration * 100
}

// Player builds playback sessions from one config.
type Player struct {
	config Config
}

// New returns a Player with defaults filled in.
func New(config Config) *Player {
	if config.Command == "" {
		config.Command = "mpv"
	}
	if config.SocketDir == "" {
		config.SocketDir = os.TempDir()
	}
	if config.PollInterval <= 0 {
		config.PollInterval = time.Second
	}
	return &Player{config: config}
}

// Hooks observe one session. OnProgress fires on every successful status
// poll, OnExit once after mpv terminates with the last observed status.
// Both run on the session's monitor goroutine and must not block.
type Hooks struct {
	OnProgress func(Status)
	OnExit     func(Status)
}

// Session is one running mpv process.
type Session struct {
	cmd          *exec.Cmd
	socket       string
	pollInterval time.Duration
	hooks        Hooks

	mu   sync.Mutex
	last Status

	done chan struct{}
}

// Start launches mpv on a URL or local path. startSeconds > 0 resumes
// partway in. The returned session is already being monitored.
func (p *Player) Start(mediaURL string, startSeconds float64, hooks Hooks) (*Session, error) {
	if mediaURL == "" {
		return nil, fmt.Errorf("nothing to play")
	}

	socket := filepath.Join(p.config.SocketDir,
		fmt.Sprintf("jtv-mpv-%d-%d.sock", os.Getpid(), time.Now().UnixNano()))

	args := []string{
		"--input-ipc-server=" + socket,
		"--title=jtv-player",
	}
	if startSeconds > 0 {
		args = append(args, fmt.Sprintf("--start=%.2f", startSeconds))
	}
	args = append(args, p.config.Args...)
	args = append(args, mediaURL)

	cmd := exec.Command(p.config.Command, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", p.config.Command, err)
	}

	session := &Session{
		cmd:          cmd,
		socket:       socket,
		pollInterval: p.config.PollInterval,
		hooks:        hooks,
		done:         make(chan struct{}),
	}
	go session.monitor()
	return session, nil
}

// monitor polls status until the process exits, then fires OnExit exactly
// once with the last observation.
func (s *Session) monitor() {
	waitErr := make(chan error, 1)
	go func() { waitErr <- s.cmd.Wait() }()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-waitErr:
			os.Remove(s.socket)
			final := s.Status()
			final.Running = false
			s.setStatus(final)
			close(s.done)
			if s.hooks.OnExit != nil {
				s.hooks.OnExit(final)
			}
			return

		case <-ticker.C:
			status, ok := s.poll()
			if !ok {
				continue
			}
			s.setStatus(status)
			if s.hooks.OnProgress != nil {
				s.hooks.OnProgress(status)
			}
		}
	}
}

// Done is closed once mpv has exited and OnExit fired.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session ends.
func (s *Session) Wait() {
	<-s.done
}

// Status returns the last observed status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) setStatus(status Status) {
	s.mu.Lock()
	s.last = status
	s.mu.Unlock()
}

// poll reads position, duration and pause state.
func (s *Session) poll() (Status, bool) {
	status := Status{Running: true}

	if v, ok := s.getProperty("time-pos"); ok {
		if pos, ok := v.(float64); ok {
			status.Position = pos
		}
	}
	if v, ok := s.getProperty("duration"); ok {
		if dur, ok := v.(float64); ok {
			status.Duration = dur
		}
	}
	if v, ok := s.getProperty("pause"); ok {
		if paused, ok := v.(bool); ok {
			status.Paused = paused
		}
	}

	if status.Position == 0 && status.Duration == 0 {
		// Socket is up but mpv has not loaded the file yet.
		return Status{}, false
	}
	return status, true
}

// TogglePause flips play/pause.
func (s *Session) TogglePause() error {
	return s.command("cycle", "pause")
}

// Seek jumps by a relative number of seconds, negative seeks backwards.
func (s *Session) Seek(seconds int) error {
	return s.command("seek", fmt.Sprintf("%d", seconds), "relative")
}

// CycleSubtitles switches to the next subtitle track.
func (s *Session) CycleSubtitles() error {
	return s.command("cycle", "sid")
}

// CycleAudio switches to the next audio track.
func (s *Session) CycleAudio() error {
	return s.command("cycle", "aid")
}

// Stop asks mpv to quit. Playback position is preserved via the final
// status observation, so the caller can still report it.
func (s *Session) Stop() error {
	return s.command("quit")
}

// Kill force-terminates the process when the IPC quit did not work.
func (s *Session) Kill() error {
	if s.cmd.Process == nil {
		return nil
	}
	return s.cmd.Process.Kill()
}

func (s *Session) dial() (net.Conn, error) {
	conn, err := net.Dial("unix", s.socket)
	if err != nil {
		return nil, err
	}
	conn.SetDeadline(time.Now().Add(500 * time.Millisecond))
	return conn, nil
}

// command opens a fresh connection and fires one IPC command without
// waiting for a reply.
func (s *Session) command(args ...string) error {
	conn, err := s.dial()
	if err != nil {
		return fmt.Errorf("player not reachable: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(map[string]any{"command": args})
	if err != nil {
		return err
	}

	_, err = conn.Write(append(payload, '\n'))
	return err
}

// getProperty runs a get_property round trip on a fresh connection. mpv
// pushes event lines to every IPC client, so lines are skipped until the
// command response arrives.
func (s *Session) getProperty(name string) (any, bool) {
	conn, err := s.dial()
	if err != nil {
		return nil, false
	}
	defer conn.Close()

	payload, err := json.Marshal(map[string]any{
		"command": []string{"get_property", name},
	})
	if err != nil {
		return nil, false
	}

	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, false
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var response map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &response); err != nil {
			continue
		}
		if _, isEvent := response["event"]; isEvent {
			continue
		}
		data, ok := response["data"]
		return data, ok
	}
	return nil, false
}
