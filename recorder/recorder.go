// Package recorder manages a single microphone capture subprocess.
//
// A Recorder owns at most one live session: the pairing of a running
// capture process and the wav file it is writing. Start installs a
// session, Stop and Cancel consume it. The slot is guarded by a mutex
// held only across slot access, never across process waits, so callers
// that do not touch the slot are never stalled by a slow shutdown.
package recorder

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const (
	DefaultBinary      = "arecord"
	DefaultSampleRate  = 16000
	DefaultChannels    = 1
	DefaultGracePeriod = 3 * time.Second
)

var (
	ErrAlreadyRecording = errors.New("a recording is already in progress")
	ErrNotRecording     = errors.New("no active recording to stop")
	ErrFileNotCreated   = errors.New("recording file was not created")
	ErrEmptyRecording   = errors.New("recording file is empty")
)

// Config controls how the capture subprocess is launched.
type Config struct {
	// Binary is the capture utility, resolved via PATH. Defaults to arecord.
	Binary string
	// Dir is where wav files are written. Defaults to the OS temp dir.
	Dir string
	// SampleRate in Hz. Defaults to 16000, which is what speech models want.
	SampleRate int
	// Channels defaults to 1 (mono).
	Channels int
	// GracePeriod is how long Stop waits after requesting graceful
	// termination before killing the process. Defaults to 3 seconds.
	GracePeriod time.Duration
}

func (c *Config) applyDefaults() {
	if c.Binary == "" {
		c.Binary = DefaultBinary
	}
	if c.Dir == "" {
		c.Dir = os.TempDir()
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = DefaultGracePeriod
	}
}

type session struct {
	cmd  *exec.Cmd
	path string
}

// Recorder owns the single recording session slot.
type Recorder struct {
	cfg Config

	mu     sync.Mutex
	active *session
}

func New(cfg Config) *Recorder {
	cfg.applyDefaults()
	return &Recorder{cfg: cfg}
}

// Start spawns the capture subprocess writing to a fresh wav file and
// returns the file path. Fails with ErrAlreadyRecording if a session is
// live; replacing it silently would leak the previous process.
func (r *Recorder) Start() (string, error) {
	path := filepath.Join(r.cfg.Dir,
		fmt.Sprintf("recording_%d.wav", time.Now().UnixNano()))

	// -f S16_LE: 16-bit signed little-endian PCM
	cmd := exec.Command(r.cfg.Binary,
		"-f", "S16_LE",
		"-r", strconv.Itoa(r.cfg.SampleRate),
		"-c", strconv.Itoa(r.cfg.Channels),
		path)
	// No stdio attached: exec wires nil streams to the null device.

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return "", ErrAlreadyRecording
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start %s: %w (is %s installed?)",
			r.cfg.Binary, err, r.cfg.Binary)
	}
	r.active = &session{cmd: cmd, path: path}
	return path, nil
}

// take removes and returns the current session, or nil.
func (r *Recorder) take() *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.active
	r.active = nil
	return s
}

// Recording reports whether a session is live.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Stop ends the active recording and returns the path to the wav file.
// Graceful termination lets the utility flush and close the wav header;
// after GracePeriod the process is killed instead. The resulting file
// must exist and be non-empty.
func (r *Recorder) Stop() (string, error) {
	s := r.take()
	if s == nil {
		return "", ErrNotRecording
	}

	if err := terminate(s.cmd.Process); err != nil {
		_ = s.cmd.Process.Kill()
	}
	waitWithGrace(s.cmd, r.cfg.GracePeriod)

	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrFileNotCreated
		}
		return "", fmt.Errorf("stat recording: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(s.path)
		return "", ErrEmptyRecording
	}
	return s.path, nil
}

// Cancel discards the active recording. A no-op when idle: callers use
// cancel as "make sure nothing is recording", so unlike Stop it never
// fails on an empty slot. Cleanup is best-effort.
func (r *Recorder) Cancel() error {
	s := r.take()
	if s == nil {
		return nil
	}
	_ = s.cmd.Process.Kill()
	_ = s.cmd.Wait()
	_ = os.Remove(s.path)
	return nil
}

// waitWithGrace waits for the process to exit, escalating to a kill
// once the grace period runs out.
func waitWithGrace(cmd *exec.Cmd, grace time.Duration) {
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(grace):
		_ = cmd.Process.Kill()
		<-done
	}
}
