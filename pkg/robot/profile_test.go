package robot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

func writeProfile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
name = "nxt-01"
width = 16
sensor_offsets = [1, 2, 3, 4]
sensor_headings = [0, 45, 315]
deadline = 300
color = "red"
`)
	p, err := LoadProfile(path)
	require.NoError(t, err)
	require.Equal(t, "nxt-01", p.Name)
	require.Equal(t, uint16(16), p.Width)
	require.Equal(t, DefaultProfile().Length, p.Length)

	m, err := p.Handshake()
	require.NoError(t, err)
	require.Equal(t, &msgs.Handshake{
		Name:           "nxt-01",
		Width:          16,
		Length:         20,
		TowerOffsetX:   10,
		AxleOffset:     5,
		SensorOffsets:  [msgs.SensorsNum]uint8{1, 2, 3, 4},
		SensorHeadings: [msgs.SensorsNum]uint16{0, 45, 315, 0},
		Deadline:       300,
	}, m)
}

func TestLoadProfileInvalid(t *testing.T) {
	testCases := map[string]string{
		"long-name":    `name = "01234567890"`,
		"offsets":      `sensor_offsets = [1, 2, 3, 4, 5]`,
		"out-of-range": `tower_offset_x = 300`,
		"syntax":       `width = `,
	}
	for name, content := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadProfile(writeProfile(t, content))
			require.Error(t, err)
		})
	}
}

func TestDefaultName(t *testing.T) {
	m, err := DefaultProfile().Handshake()
	require.NoError(t, err)
	require.NotEmpty(t, m.Name)
	require.True(t, len(m.Name) <= msgs.NameLen)
	_, err = msgs.Encode(m)
	require.NoError(t, err)
}
