package robot

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

// Profile is the physical description sent in HANDSHAKE. Lengths are in
// cm, headings in degrees and the deadline in seconds.
type Profile struct {
	Name           string   `toml:"name"`
	Width          uint16   `toml:"width"`
	Length         uint16   `toml:"length"`
	TowerOffsetX   uint8    `toml:"tower_offset_x"`
	TowerOffsetY   uint8    `toml:"tower_offset_y"`
	AxleOffset     uint8    `toml:"axle_offset"`
	SensorOffsets  []uint8  `toml:"sensor_offsets"`
	SensorHeadings []uint16 `toml:"sensor_headings"`
	Deadline       uint16   `toml:"deadline"`
}

// DefaultProfile describes the stock NXT build.
func DefaultProfile() *Profile {
	return &Profile{
		Width:          15,
		Length:         20,
		TowerOffsetX:   10,
		TowerOffsetY:   0,
		AxleOffset:     5,
		SensorOffsets:  []uint8{3, 3, 3, 3},
		SensorHeadings: []uint16{0, 90, 180, 270},
		Deadline:       180,
	}
}

// LoadProfile reads a TOML profile on top of DefaultProfile.
func LoadProfile(path string) (*Profile, error) {
	p := DefaultProfile()
	meta, err := toml.DecodeFile(path, p)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	for _, key := range meta.Undecoded() {
		glog.Warningf("profile %s: unknown key %q", path, key.String())
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the profile fits the HANDSHAKE layout.
func (p *Profile) Validate() error {
	if len(p.Name) > msgs.NameLen {
		return fmt.Errorf("name %q longer than %d bytes", p.Name, msgs.NameLen)
	}
	if len(p.SensorOffsets) > msgs.SensorsNum {
		return fmt.Errorf("%d sensor offsets, at most %d", len(p.SensorOffsets), msgs.SensorsNum)
	}
	if len(p.SensorHeadings) > msgs.SensorsNum {
		return fmt.Errorf("%d sensor headings, at most %d", len(p.SensorHeadings), msgs.SensorsNum)
	}
	return nil
}

// Handshake builds the HANDSHAKE message. An empty name is replaced by
// DefaultName.
func (p *Profile) Handshake() (*msgs.Handshake, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m := &msgs.Handshake{
		Name:         p.Name,
		Width:        p.Width,
		Length:       p.Length,
		TowerOffsetX: p.TowerOffsetX,
		TowerOffsetY: p.TowerOffsetY,
		AxleOffset:   p.AxleOffset,
		Deadline:     p.Deadline,
	}
	if m.Name == "" {
		m.Name = DefaultName()
	}
	copy(m.SensorOffsets[:], p.SensorOffsets)
	copy(m.SensorHeadings[:], p.SensorHeadings)
	return m, nil
}

// DefaultName derives a name from the machine ID.
func DefaultName() string {
	id, err := machineid.ProtectedID("nxtlink")
	if err != nil {
		glog.Warningf("machine id: %v", err)
		return "nxt"
	}
	name := "nxt-" + strings.ToLower(id)
	if len(name) > msgs.NameLen {
		name = name[:msgs.NameLen]
	}
	return name
}
