// Package execread provides a shared session that reads raw audio from the
// stdout of a recorder process.
package execread

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/noriah/vmatrix/input"
	"github.com/pkg/errors"
)

// Session reads signed 16-bit little endian audio from a Cmd.
type Session struct {
	// OnStart is called when the session starts. Nil by default.
	OnStart func(ctx context.Context, cmd *exec.Cmd) error

	// prevents cmd.Stderr from pointing to os.Stderr. false by default.
	DisconnectedStderr bool

	argv []string
	cfg  input.SessionConfig

	cmd    *exec.Cmd
	stdout io.ReadCloser
	cancel context.CancelFunc
	raw    []byte

	closeOnce sync.Once
}

// NewSession creates a new execread session. Nothing runs until Start.
func NewSession(argv []string, cfg input.SessionConfig) (*Session, error) {
	if len(argv) < 1 {
		return nil, errors.New("argv has no arg0")
	}

	return &Session{
		argv: argv,
		cfg:  cfg,
		raw:  make([]byte, cfg.BlockLen()*2),
	}, nil
}

// Argv is the command line the session runs.
func (s *Session) Argv() []string {
	return s.argv
}

// Start launches the process. Cancelling ctx kills it.
func (s *Session) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)

	if !s.DisconnectedStderr {
		cmd.Stderr = os.Stderr
	}

	o, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return errors.Wrap(err, "failed to get stdout pipe")
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return errors.Wrap(err, "failed to start "+s.argv[0])
	}

	s.cmd = cmd
	s.stdout = o
	s.cancel = cancel

	if s.OnStart != nil {
		if err := s.OnStart(ctx, cmd); err != nil {
			s.Close()
			return err
		}
	}

	return nil
}

// ReadBlock reads one block of interleaved samples.
func (s *Session) ReadBlock(dst []int16) error {
	if !input.EnsureBufferLen(s.cfg, dst) {
		return errors.New("invalid dst length given")
	}

	if s.stdout == nil {
		return errors.New("session not started")
	}

	return input.ReadS16LE(s.stdout, dst, s.raw)
}

// Close kills the process and waits for it to exit.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.cmd == nil {
			return
		}

		s.cancel()

		// the process was killed or hit end of input, neither is an error here
		s.cmd.Wait()
	})

	return nil
}
