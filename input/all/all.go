// Package all imports all backends implemented by the input package.
package all

import (
	_ "github.com/noriah/vmatrix/input/ffmpeg"
	_ "github.com/noriah/vmatrix/input/parec"
	_ "github.com/noriah/vmatrix/input/pipewire"
	_ "github.com/noriah/vmatrix/input/sine"
	_ "github.com/noriah/vmatrix/input/stdinput"
	_ "github.com/noriah/vmatrix/input/wav"
)
