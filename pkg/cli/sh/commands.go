package sh

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

var commands = []*ishell.Cmd{
	&OpenCmd,
	&CloseCmd,
	&StatusCmd,
	&OrderCmd,
	sendCmd("pause", &msgs.Pause{}),
	sendCmd("unpause", &msgs.Unpause{}),
	sendCmd("confirm", &msgs.Confirm{}),
	sendCmd("finish", &msgs.Finish{}),
	sendCmd("ping", &msgs.Ping{}),
}

// ParseOrder parses "X Y" in cm.
func ParseOrder(args []string) (*msgs.Order, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("X Y expected")
	}
	var vals [2]int16
	for i, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q: %w", arg, err)
		}
		vals[i] = int16(v)
	}
	return &msgs.Order{X: vals[0], Y: vals[1]}, nil
}

func sendCmd(name string, msg msgs.Message) *ishell.Cmd {
	return &ishell.Cmd{
		Name: name,
		Help: "send " + msg.Type().String(),
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Send(msg); err != nil {
				c.Err(err)
			}
		},
	}
}

var (
	// OpenCmd opens a port.
	OpenCmd = ishell.Cmd{
		Name: "open",
		Help: "[PORT]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			port := s.Config.Port
			if len(c.Args) > 0 {
				port = c.Args[0]
			}
			if err := s.Open(port); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes the port.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}

	// StatusCmd prints the link status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Func: func(c *ishell.Context) {
			conn := ShellFrom(c).Conn
			if conn == nil {
				c.Println("closed")
				return
			}
			c.Printf("%s %v baud=%d pending=%d overruns=%d\n",
				conn.Port, conn.Link.State(), conn.Transport.Baud(),
				conn.Link.Pending(), conn.Transport.Overruns())
		},
	}

	// OrderCmd sends a target.
	OrderCmd = ishell.Cmd{
		Name: "order",
		Help: "X Y (cm)",
		Func: func(c *ishell.Context) {
			msg, err := ParseOrder(c.Args)
			if err == nil {
				err = ShellFrom(c).Send(msg)
			}
			if err != nil {
				c.Err(err)
			}
		},
	}
)
