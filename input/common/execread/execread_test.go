package execread

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/noriah/vmatrix/input"
)

func TestReadBlocks(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}

	// two stereo frames then half a block
	raw := []byte{
		0x01, 0x00, 0xff, 0xff,
		0x00, 0x80, 0xff, 0x7f,
		0x05, 0x00,
	}

	path := filepath.Join(t.TempDir(), "block.raw")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := input.SessionConfig{FrameSize: 2, SampleSize: 2, SampleRate: 44100}

	s, err := NewSession([]string{cat, path}, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	dst := make([]int16, cfg.BlockLen())
	if err := s.ReadBlock(dst); err != nil {
		t.Fatal(err)
	}

	want := []int16{1, -1, -32768, 32767}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("block = %v, want %v", dst, want)
		}
	}

	if err := s.ReadBlock(dst); err != io.ErrUnexpectedEOF {
		t.Errorf("partial block = %v, want io.ErrUnexpectedEOF", err)
	}

	if err := s.ReadBlock(make([]int16, 3)); err == nil {
		t.Error("expected error for wrong block size")
	}
}

func TestNoArgv(t *testing.T) {
	if _, err := NewSession(nil, input.SessionConfig{}); err == nil {
		t.Error("expected error for empty argv")
	}
}
