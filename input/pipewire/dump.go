package pipewire

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

type pwObjects []pwObject

func pwDump(ctx context.Context) (pwObjects, error) {
	cmd := exec.CommandContext(ctx, "pw-dump")
	cmd.Stderr = os.Stderr

	dumpOutput, err := cmd.Output()
	if err != nil {
		var execErr *exec.ExitError
		if errors.As(err, &execErr) {
			return nil, errors.Wrapf(err, "failed to run pw-dump: %s", execErr.Stderr)
		}
		return nil, errors.Wrap(err, "failed to run pw-dump")
	}

	return parseDump(dumpOutput)
}

func parseDump(data []byte) (pwObjects, error) {
	var dump pwObjects
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, errors.Wrap(err, "failed to parse pw-dump output")
	}

	return dump, nil
}

// Filter filters for the objects that satisfy every fn.
func (d pwObjects) Filter(fns ...func(pwObject) bool) pwObjects {
	filtered := make(pwObjects, 0, len(d))
loop:
	for _, device := range d {
		for _, f := range fns {
			if !f(device) {
				continue loop
			}
		}
		filtered = append(filtered, device)
	}
	return filtered
}

// Sources returns the nodes that can be recorded from: capture devices and
// sinks, whose monitors carry what is playing.
func (d pwObjects) Sources() pwObjects {
	return d.Filter(func(o pwObject) bool {
		if o.Type != pwInterfaceNode {
			return false
		}

		switch o.Info.Props.MediaClass {
		case pwAudioSource, pwAudioSink, pwStreamOutputAudio:
			return true
		}

		return false
	})
}

type pwObjectID int64

type pwObjectType string

const (
	pwInterfaceNode pwObjectType = "PipeWire:Interface:Node"
)

type pwObject struct {
	ID   pwObjectID   `json:"id"`
	Type pwObjectType `json:"type"`
	Info struct {
		Props pwNodeProps `json:"props"`
	} `json:"info"`
}

type pwNodeProps struct {
	NodeName        string `json:"node.name"`
	NodeNick        string `json:"node.nick"`
	NodeDescription string `json:"node.description"`
	MediaClass      string `json:"media.class"`
}

// Constants for MediaClass.
const (
	pwAudioSource       string = "Audio/Source"
	pwAudioSink         string = "Audio/Sink"
	pwStreamOutputAudio string = "Stream/Output/Audio"
)
