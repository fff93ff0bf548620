package wav

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/noriah/vmatrix/input"
)

func writeWav(t *testing.T, rate, channels int, samples []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}

	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	return path
}

func start(t *testing.T, path string, cfg input.SessionConfig) input.Session {
	t.Helper()

	cfg.Device = File(path)
	cfg.Unpaced = true

	s, err := Backend{}.Start(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { s.Close() })

	return s
}

func TestBlocksAndPadding(t *testing.T) {
	path := writeWav(t, 8000, 1, []int{1, 2, 3, 4, 5})

	s := start(t, path, input.SessionConfig{FrameSize: 1, SampleSize: 4, SampleRate: 8000})
	dst := make([]int16, 4)

	if err := s.ReadBlock(dst); err != nil {
		t.Fatal(err)
	}

	if dst[0] != 1 || dst[3] != 4 {
		t.Errorf("first block = %v", dst)
	}

	if err := s.ReadBlock(dst); err != nil {
		t.Fatal(err)
	}

	if dst[0] != 5 || dst[1] != 0 || dst[3] != 0 {
		t.Errorf("padded block = %v, want [5 0 0 0]", dst)
	}

	if err := s.ReadBlock(dst); err != io.EOF {
		t.Errorf("after last block = %v, want io.EOF", err)
	}
}

func TestChannelRemap(t *testing.T) {
	path := writeWav(t, 8000, 2, []int{10, 30, -4, -8})

	s := start(t, path, input.SessionConfig{FrameSize: 1, SampleSize: 2, SampleRate: 8000})
	dst := make([]int16, 2)

	if err := s.ReadBlock(dst); err != nil {
		t.Fatal(err)
	}

	if dst[0] != 20 || dst[1] != -6 {
		t.Errorf("mixed block = %v, want [20 -6]", dst)
	}
}

func TestRateMismatch(t *testing.T) {
	path := writeWav(t, 22050, 1, []int{0, 0})

	cfg := input.SessionConfig{
		Device:     File(path),
		FrameSize:  1,
		SampleSize: 2,
		SampleRate: 44100,
	}

	if _, err := (Backend{}).Start(context.Background(), cfg); err == nil {
		t.Error("expected error for sample rate mismatch")
	}
}

func TestRegisteredFileDevice(t *testing.T) {
	path := writeWav(t, 44100, 1, make([]int, 8))

	b, err := input.InitBackend("wav")
	if err != nil {
		t.Fatal(err)
	}

	dv, err := input.GetDevice(b, path)
	if err != nil {
		t.Fatal(err)
	}

	if f, ok := dv.(File); !ok || string(f) != path {
		t.Errorf("device = %#v, want File(%q)", dv, path)
	}
}
