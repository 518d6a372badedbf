package sh

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/abiosoft/ishell"

	"github.com/tuppersat/r2d1.go/pkg/radio"
)

// Shell provides ishell backed interactive ground shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell *ishell.Shell
	Radio *radio.Config

	linkLock sync.Mutex
	link     radio.UART
	tx       *radio.Radio
}

const (
	shellKey = "$shell"
	prompt   = "r2d1 > "
)

var (
	evalOnly   bool
	outputJSON bool

	commands []*ishell.Cmd
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *radio.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell: ishell.New(),
		Radio: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Link opens the radio UART on first use.
func (s *Shell) Link() (radio.UART, error) {
	s.linkLock.Lock()
	defer s.linkLock.Unlock()
	if s.link == nil {
		link, err := s.Radio.Open()
		if err != nil {
			return nil, err
		}
		s.link = link
	}
	return s.link, nil
}

// Transmitter gets the radio sending on the link. It is created once per
// opened link so frame ids keep counting across commands.
func (s *Shell) Transmitter() (*radio.Radio, error) {
	link, err := s.Link()
	if err != nil {
		return nil, err
	}
	s.linkLock.Lock()
	defer s.linkLock.Unlock()
	if s.tx == nil {
		s.tx = radio.NewRadio(link, byte(s.Radio.Address))
	}
	return s.tx, nil
}

// Close closes the radio UART if opened.
func (s *Shell) Close() error {
	s.linkLock.Lock()
	defer s.linkLock.Unlock()
	if s.link == nil {
		return nil
	}
	err := s.link.Close()
	s.link, s.tx = nil, nil
	return err
}

// Output prints v as JSON in JSON mode, otherwise text.
func Output(c *ishell.Context, v interface{}, text string) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(text)
}

// ParseBytes interprets an argument as hex when prefixed by 0x or hex:,
// as text otherwise.
func ParseBytes(arg string) ([]byte, error) {
	for _, prefix := range []string{"0x", "hex:"} {
		if strings.HasPrefix(arg, prefix) {
			b, err := hex.DecodeString(strings.ReplaceAll(arg[len(prefix):], " ", ""))
			if err != nil {
				return nil, fmt.Errorf("invalid hex: %w", err)
			}
			return b, nil
		}
	}
	return []byte(arg), nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Close()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(radio.NewConfig()).Run(flag.Args()...)
}
