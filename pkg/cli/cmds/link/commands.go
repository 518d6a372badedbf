// Package link provides shell commands talking to the radio UART.
package link

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/tuppersat/r2d1.go/pkg/cli/cmds/frame"
	"github.com/tuppersat/r2d1.go/pkg/cli/sh"
	"github.com/tuppersat/r2d1.go/pkg/radio"
)

// Listen prints messages received within d.
func Listen(ctx context.Context, rcv *radio.Receiver, d time.Duration, emit func(*frame.Decoded)) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	var count int
	for {
		msg, ok, err := rcv.ReadMessage(ctx, d)
		if err != nil {
			if err == context.DeadlineExceeded {
				err = nil
			}
			return count, err
		}
		if !ok {
			return count, nil
		}
		count++
		emit(frame.Describe(msg))
	}
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name: "ports",
		Help: "",
		Func: func(c *ishell.Context) {
			ports, err := radio.ListPorts()
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, ports, strings.Join(ports, "\n"))
		},
	}

	// ListenCmd prints received messages.
	ListenCmd = ishell.Cmd{
		Name:    "listen",
		Aliases: []string{"l"},
		Help:    "[SECONDS]",
		Func: func(c *ishell.Context) {
			d := 10 * time.Second
			if len(c.Args) > 0 {
				secs, err := strconv.ParseFloat(c.Args[0], 64)
				if err != nil {
					c.Err(fmt.Errorf("Invalid SECONDS: %v", err))
					return
				}
				d = time.Duration(secs * float64(time.Second))
			}
			link, err := sh.ShellFrom(c).Link()
			if err != nil {
				c.Err(err)
				return
			}
			count, err := Listen(context.Background(), radio.NewReceiver(link), d, func(msg *frame.Decoded) {
				sh.Output(c, msg, msg.String())
			})
			if err != nil {
				c.Err(err)
			}
			if !sh.ShellFrom(c).OutputJSON {
				c.Printf("%d messages\n", count)
			}
		},
	}

	// SendCmd broadcasts a text message.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "TEXT",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("TEXT required"))
				return
			}
			tx, err := sh.ShellFrom(c).Transmitter()
			if err != nil {
				c.Err(err)
				return
			}
			n, err := tx.SendText(strings.Join(c.Args, " "))
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, map[string]int{"sent": n}, fmt.Sprintf("%d bytes sent", n))
		},
	}
)

func init() {
	sh.AddCmds(
		&PortsCmd,
		&ListenCmd,
		&SendCmd,
	)
}
