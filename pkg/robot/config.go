package robot

import (
	"flag"
	"os"
	"time"

	"github.com/robotalks/nxtlink/pkg/l0/arq"
	"github.com/robotalks/nxtlink/pkg/l0/hs"
)

// Config defines the configuration of the robot process.
type Config struct {
	Port           string
	Baud           int
	BufferSize     int
	Profile        string
	AckTimeout     time.Duration
	Retries        int
	ConnectRetry   time.Duration
	ReportInterval time.Duration
	MQTTURL        string
}

// Defaults
const (
	DefaultConnectRetry   = time.Second
	DefaultReportInterval = 200 * time.Millisecond
)

var defaultConfig = Config{
	Port:           "/dev/ttyUSB0",
	Baud:           hs.DefaultBaudRate,
	BufferSize:     hs.DefaultBufferSize,
	AckTimeout:     arq.DefaultTimeout,
	Retries:        arq.DefaultRetries,
	ConnectRetry:   DefaultConnectRetry,
	ReportInterval: DefaultReportInterval,
}

func init() {
	if val := os.Getenv("NXTLINK_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("NXTLINK_PROFILE"); val != "" {
		defaultConfig.Profile = val
	}
	if val := os.Getenv("NXTLINK_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port device.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate.")
	flag.IntVar(&defaultConfig.BufferSize, "buffer-size", defaultConfig.BufferSize, "Size of each transport buffer.")
	flag.StringVar(&defaultConfig.Profile, "profile", defaultConfig.Profile, "Robot profile (TOML), built-in profile if empty.")
	flag.DurationVar(&defaultConfig.AckTimeout, "ack-timeout", defaultConfig.AckTimeout, "Retransmission timeout.")
	flag.IntVar(&defaultConfig.Retries, "retries", defaultConfig.Retries, "Retransmissions before the connection is lost.")
	flag.DurationVar(&defaultConfig.ConnectRetry, "connect-retry", defaultConfig.ConnectRetry, "Delay between connect attempts.")
	flag.DurationVar(&defaultConfig.ReportInterval, "report-interval", defaultConfig.ReportInterval, "Interval of UPDATE reports.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "Publish link telemetry to mqtt://host:port/topic-prefix.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Opener opens the configured serial port.
func (c *Config) Opener() hs.Opener {
	return &hs.SerialOpener{Path: c.Port}
}

// LoadProfile loads the configured profile or the built-in one.
func (c *Config) LoadProfile() (*Profile, error) {
	if c.Profile == "" {
		return DefaultProfile(), nil
	}
	return LoadProfile(c.Profile)
}

// NewTransport creates a disabled transport.
func (c *Config) NewTransport(opener hs.Opener) *hs.Transport {
	t := hs.New(opener)
	if c.BufferSize > 0 {
		t.BufferSize = c.BufferSize
	}
	return t
}
