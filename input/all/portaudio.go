//go:build portaudio

package all

import (
	_ "github.com/noriah/vmatrix/input/portaudio"
)
