package repl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"qaboard/internal/cli/command"
	httpclient "qaboard/internal/cli/http"
	"qaboard/internal/cli/state"
	pkgerrors "qaboard/pkg/errors"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
)

const prompt = "qaboard> "

var errExit = errors.New("exit")

// Session holds REPL state.
type Session struct {
	client      *httpclient.Client
	commands    map[string]command.Command
	state       *state.SessionState
	statePath   string
	historyFile string
	prettyJSON  bool
	out         io.Writer
	// ask reads one answer for a missing required field.
	ask func(prompt string) (string, error)
}

// Options configure a Session.
type Options struct {
	StatePath   string
	HistoryFile string
	PrettyJSON  bool
}

func New(client *httpclient.Client, commands map[string]command.Command, st *state.SessionState, opts Options) *Session {
	return &Session{
		client:      client,
		commands:    commands,
		state:       st,
		statePath:   opts.StatePath,
		historyFile: opts.HistoryFile,
		prettyJSON:  opts.PrettyJSON,
		out:         os.Stdout,
		ask: func(string) (string, error) {
			return "", fmt.Errorf("no interactive input")
		},
	}
}

// Run drives the interactive loop until exit or EOF.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     s.historyFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("init readline failed: %w", err)
	}
	defer func() { _ = rl.Close() }()

	s.out = rl.Stdout()
	s.ask = func(label string) (string, error) {
		rl.SetPrompt(label + ": ")
		defer rl.SetPrompt(prompt)
		line, err := rl.Readline()
		if err != nil {
			return "", fmt.Errorf("read input failed: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input failed: %w", err)
		}
		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				s.printLine("bye")
				return nil
			}
			s.printLine("error: %v", err)
		}
	}
}

// Execute runs one input line.
func (s *Session) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}
	if handled, err := s.handleSystemCommand(tokens); handled {
		return err
	}
	return s.handleCommand(ctx, tokens)
}

func (s *Session) handleSystemCommand(tokens []string) (bool, error) {
	switch tokens[0] {
	case "exit", "quit":
		return true, errExit
	case "help":
		s.printHelp()
		return true, nil
	case "set":
		return true, s.handleSet(tokens[1:])
	case "show":
		return true, s.handleShow(tokens[1:])
	case "use":
		return true, s.handleUse(tokens[1:])
	case "logout":
		s.state.Token = ""
		s.printLine("token cleared")
		return true, s.saveState()
	}
	return false, nil
}

func (s *Session) handleSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set base|timeout|token <value>")
	}
	switch args[0] {
	case "base":
		s.client.SetBaseURL(args[1])
		s.printLine("base set to %s", args[1])
	case "timeout":
		dur, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		s.client.SetTimeout(dur)
		s.printLine("timeout set to %s", s.client.Timeout())
	case "token":
		s.state.Token = args[1]
		if err := s.saveState(); err != nil {
			return err
		}
		s.printLine("token updated")
	default:
		return fmt.Errorf("unknown set command: %s", args[0])
	}
	return nil
}

func (s *Session) handleShow(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: show token|views|config")
	}
	switch args[0] {
	case "token":
		s.printLine("token: %s", maskToken(s.state.Token))
	case "views":
		if len(s.state.Views) == 0 {
			s.printLine("no open views")
			return nil
		}
		kinds := make([]string, 0, len(s.state.Views))
		for kind := range s.state.Views {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			s.printLine("%-8s %s", kind, s.state.Views[kind])
		}
	case "config":
		s.printLine("base: %s", s.client.BaseURL())
		s.printLine("timeout: %s", s.client.Timeout())
		s.printLine("statePath: %s", s.statePath)
	default:
		return fmt.Errorf("usage: show token|views|config")
	}
	return nil
}

// handleUse points a view kind at an existing view id.
func (s *Session) handleUse(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: use listing|detail|compose <view_id>")
	}
	switch args[0] {
	case command.KindListing, command.KindDetail, command.KindCompose:
	default:
		return fmt.Errorf("unknown view kind: %s", args[0])
	}
	s.state.SetView(args[0], args[1])
	return s.saveState()
}

func (s *Session) handleCommand(ctx context.Context, tokens []string) error {
	if len(tokens) < 2 {
		return fmt.Errorf("invalid command, use: <service> <action> key=value ...")
	}
	key := tokens[0] + " " + tokens[1]
	cmd, ok := s.commands[key]
	if !ok {
		return fmt.Errorf("unknown command: %s", key)
	}
	params, err := command.ParseArgs(tokens[2:])
	if err != nil {
		return err
	}
	params.Canonicalize(cmd.Fields)

	s.applyRememberedView(cmd, params)
	if err := s.promptMissing(cmd, params); err != nil {
		return err
	}
	if cmd.RequiresCredential && s.state.Token == "" {
		s.printLine("warning: no token set, use 'set token <value>'")
	}

	req, err := command.BuildRequest(cmd, params)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(ctx, req.Method, req.Path, req.Headers, req.Body)
	if err != nil {
		return err
	}
	s.renderResponse(resp)
	return s.trackView(cmd, params, resp)
}

func (s *Session) applyRememberedView(cmd command.Command, params command.Params) {
	if cmd.ViewKind == "" || cmd.Opens || params.Get("view") != "" {
		return
	}
	if id := s.state.View(cmd.ViewKind); id != "" {
		params.Set("view", id)
	}
}

func (s *Session) promptMissing(cmd command.Command, params command.Params) error {
	for _, field := range cmd.Fields {
		if !field.Required || params.Get(field.Name) != "" {
			continue
		}
		value, err := s.ask(field.Prompt)
		if err != nil {
			return fmt.Errorf("%s is required: %w", field.Name, err)
		}
		if value == "" {
			return fmt.Errorf("%s is required", field.Name)
		}
		params.Set(field.Name, value)
	}
	return nil
}

// trackView remembers opened views and forgets closed or expired ones.
func (s *Session) trackView(cmd command.Command, params command.Params, resp httpclient.ResponseInfo) error {
	if cmd.ViewKind == "" {
		return nil
	}
	env, err := resp.DecodeEnvelope()
	if err != nil {
		return nil
	}
	switch {
	case env.Code == int(pkgerrors.Success) && cmd.Opens:
		var page struct {
			ViewID string `json:"view_id"`
		}
		if err := json.Unmarshal(env.Data, &page); err != nil || page.ViewID == "" {
			return nil
		}
		s.state.SetView(cmd.ViewKind, page.ViewID)
		s.printLine("%s view: %s", cmd.ViewKind, page.ViewID)
	case env.Code == int(pkgerrors.Success) && cmd.Closes,
		env.Code == int(pkgerrors.ViewNotFound):
		if s.state.View(cmd.ViewKind) != params.Get("view") {
			return nil
		}
		s.state.SetView(cmd.ViewKind, "")
	default:
		return nil
	}
	return s.saveState()
}

func (s *Session) saveState() error {
	if s.statePath == "" {
		return nil
	}
	return state.Save(s.statePath, *s.state)
}

func (s *Session) renderResponse(resp httpclient.ResponseInfo) {
	s.printLine("HTTP %d (%s)", resp.StatusCode, resp.Duration.Round(time.Millisecond))
	if len(resp.Body) == 0 {
		return
	}
	if s.prettyJSON {
		var raw interface{}
		if err := json.Unmarshal(resp.Body, &raw); err == nil {
			formatted, _ := json.MarshalIndent(raw, "", "  ")
			s.printLine("%s", string(formatted))
			return
		}
	}
	s.printLine("%s", string(resp.Body))
}

func (s *Session) completer() *readline.PrefixCompleter {
	actions := map[string][]readline.PrefixCompleterInterface{}
	for _, key := range command.Keys(s.commands) {
		cmd := s.commands[key]
		actions[cmd.Service] = append(actions[cmd.Service], readline.PcItem(cmd.Action))
	}
	services := make([]string, 0, len(actions))
	for service := range actions {
		services = append(services, service)
	}
	sort.Strings(services)

	items := make([]readline.PrefixCompleterInterface, 0, len(services)+6)
	for _, service := range services {
		items = append(items, readline.PcItem(service, actions[service]...))
	}
	items = append(items,
		readline.PcItem("help"),
		readline.PcItem("exit"),
		readline.PcItem("logout"),
		readline.PcItem("set", readline.PcItem("base"), readline.PcItem("timeout"), readline.PcItem("token")),
		readline.PcItem("show", readline.PcItem("token"), readline.PcItem("views"), readline.PcItem("config")),
		readline.PcItem("use", readline.PcItem(command.KindListing), readline.PcItem(command.KindDetail), readline.PcItem(command.KindCompose)),
	)
	return readline.NewPrefixCompleter(items...)
}

func (s *Session) printHelp() {
	s.printLine("usage: <service> <action> key=value ...")
	s.printLine("system: help | exit | logout | set base|timeout|token | show token|views|config | use <kind> <view_id>")
	s.printLine("commands:")
	for _, key := range command.Keys(s.commands) {
		s.printLine("  %s", key)
	}
	s.printLine("examples:")
	s.printLine("  listing open")
	s.printLine("  listing toggle tag=\"API Design\"")
	s.printLine("  detail open id=1")
	s.printLine("  detail vote direction=up")
	s.printLine("  compose update title=\"How do I cancel a fetch?\"")
}

func (s *Session) printLine(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format+"\n", args...)
}

func maskToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	if len(token) > 12 {
		return token[:6] + "..." + token[len(token)-4:]
	}
	return token
}
