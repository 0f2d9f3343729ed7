// Package sh is the server side bench shell: it accepts the connection of
// a robot on a serial port and exchanges messages with it.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"reflect"
	"time"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/nxtlink/pkg/framework"
	"github.com/robotalks/nxtlink/pkg/l0/hs"
	"github.com/robotalks/nxtlink/pkg/l0/link"
	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

// Config defines the options of the shell.
type Config struct {
	Port        string
	Baud        int
	AutoConfirm bool
	OutputJSON  bool
	Interactive bool
}

var defaultConfig = Config{
	Port:        "/dev/ttyUSB0",
	Baud:        hs.DefaultBaudRate,
	Interactive: true,
}

func init() {
	if val := os.Getenv("NXTLINK_PORT"); val != "" {
		defaultConfig.Port = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port device.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate.")
	flag.BoolVar(&defaultConfig.AutoConfirm, "auto-confirm", defaultConfig.AutoConfirm, "Reply CONFIRM to HANDSHAKE.")
	flag.BoolVar(&defaultConfig.OutputJSON, "json", defaultConfig.OutputJSON, "Print messages in JSON.")
	flag.BoolVar(&defaultConfig.Interactive, "i", defaultConfig.Interactive, "Run the interactive shell.")
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Config *Config
	Shell  *ishell.Shell
	Opener func(path string) hs.Opener
	Conn   *Conn
}

// Conn is an open port with its link loop running.
type Conn struct {
	Ctx       context.Context
	Cancel    func()
	Port      string
	Transport *hs.Transport
	Link      *link.Link
}

const (
	shellKey     = "$shell"
	closedPrompt = "[closed] > "
)

// New creates a new shell.
func New(conf *Config) *Shell {
	s := &Shell{
		Config: conf,
		Shell:  ishell.New(),
		Opener: func(path string) hs.Opener { return &hs.SerialOpener{Path: path} },
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Open enables the port and waits for a robot in the background.
func (s *Shell) Open(port string) error {
	s.Close()
	tr := hs.New(s.Opener(port))
	if err := tr.Enable(s.Config.Baud); err != nil {
		return err
	}
	conn := &Conn{Port: port, Transport: tr, Link: link.FromTransport(tr)}
	conn.Ctx, conn.Cancel = context.WithCancel(context.Background())
	s.Conn = conn
	go fx.NewLoop().Add(conn.Link).Run(conn.Ctx)
	go s.printMessages(conn)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", port))
	return nil
}

// Close stops the loop and disables the port.
func (s *Shell) Close() {
	if conn := s.Conn; conn != nil {
		conn.Cancel()
		conn.Transport.Disable()
		s.Conn = nil
		s.Shell.SetPrompt(closedPrompt)
	}
}

// Send queues a message to the robot.
func (s *Shell) Send(msg msgs.Message) error {
	if s.Conn == nil {
		return fmt.Errorf("port not open")
	}
	return s.Conn.Link.Send(msg)
}

func (s *Shell) printMessages(conn *Conn) {
	for {
		msg, err := conn.Link.Recv(conn.Ctx)
		if err != nil {
			return
		}
		s.Shell.Println(FormatMessage(msg, s.Config.OutputJSON))
		if _, ok := msg.(*msgs.Handshake); ok && s.Config.AutoConfirm {
			if err := conn.Link.Send(&msgs.Confirm{}); err != nil {
				s.Shell.Printf("confirm: %v\n", err)
			}
		}
	}
}

// FormatMessage prints a message for display.
func FormatMessage(msg msgs.Message, asJSON bool) string {
	if asJSON {
		out, err := json.Marshal(struct {
			Type string       `json:"type"`
			Msg  msgs.Message `json:"msg"`
		}{msg.Type().String(), msg})
		if err != nil {
			return err.Error()
		}
		return string(out)
	}
	if reflect.Indirect(reflect.ValueOf(msg)).NumField() == 0 {
		return msg.Type().String()
	}
	return fmt.Sprintf("%v %+v", msg.Type(), reflect.Indirect(reflect.ValueOf(msg)).Interface())
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if err := s.Open(s.Config.Port); err != nil {
		log.Fatalf("open %s: %v", s.Config.Port, err)
	}
	defer s.Close()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		// let the link deliver before closing.
		time.Sleep(time.Second)
		return
	}
	if s.Config.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	SetupFlags()
	flag.Parse()
	New(NewConfig()).Run(flag.Args()...)
}
