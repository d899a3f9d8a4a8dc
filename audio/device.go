package audio

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/gordonklaus/portaudio"
)

var deviceTmpl = template.Must(template.New("").Parse(
	`{{. | len}} host APIs: {{range .}}
	Name:                   {{.Name}}
	{{if .DefaultInputDevice}}Default input device:   {{.DefaultInputDevice.Name}}{{end}}
	Input devices: {{range .Devices}}{{if .MaxInputChannels}}
		Name:                      {{.Name}}
		MaxInputChannels:          {{.MaxInputChannels}}
		DefaultLowInputLatency:    {{.DefaultLowInputLatency}}
		DefaultHighInputLatency:   {{.DefaultHighInputLatency}}
		DefaultSampleRate:         {{.DefaultSampleRate}}
	{{end}}{{end}}
{{end}}`,
))

// DescribeDevices lists the host APIs and the input devices they expose. portaudio must
// be initialized.
func DescribeDevices() (string, error) {
	hs, err := portaudio.HostApis()
	if err != nil {
		return "", fmt.Errorf("%w: listing host APIs: %v", ErrSourceUnavailable, err)
	}
	buf := bytes.NewBuffer([]byte{})
	if err := deviceTmpl.Execute(buf, hs); err != nil {
		return "", err
	}
	return buf.String(), nil
}
