package cmd_match

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/rs/zerolog"

	"github.com/rskv-p/busmatch/mod/m_match/match_bus"
	"github.com/rskv-p/busmatch/mod/m_match/match_str"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

//---------------------
// Script
//---------------------

// script drives a broker from a line-oriented text. Each line is split
// shell-style:
//
//	peer <id>              register a peer
//	drop <id>              remove a peer and its rules
//	add <id> <rule>        add a match rule
//	remove <id> <rule>     release a match rule
//	matches <id>           list a peer's rules
//	send <field=value>...  dispatch a message and print the receivers
//	stats                  print broker counters
//
// Rules contain single quotes, so wrap them in double quotes. Broker errors
// are printed and the script continues; syntax errors stop it.
type script struct {
	broker *match_bus.Broker
	out    io.Writer
	failed int
}

func newScript(opts match_bus.Options, log zerolog.Logger, out io.Writer) *script {
	return &script{broker: match_bus.NewBroker(opts, log), out: out}
}

// run executes every line of r.
func (s *script) run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		words, err := shlex.Split(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if err := s.exec(words); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

// exec runs one command. Only malformed commands are returned as errors.
func (s *script) exec(words []string) error {
	op, args := words[0], words[1:]

	need := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s: want %d arguments, got %d", op, n, len(args))
		}
		return nil
	}

	switch op {
	case "peer":
		if err := need(1); err != nil {
			return err
		}
		s.report(s.broker.AddPeer(args[0]))
	case "drop":
		if err := need(1); err != nil {
			return err
		}
		s.report(s.broker.RemovePeer(args[0]))
	case "add":
		if err := need(2); err != nil {
			return err
		}
		s.report(s.broker.AddMatch(args[0], args[1]))
	case "remove":
		if err := need(2); err != nil {
			return err
		}
		s.report(s.broker.RemoveMatch(args[0], args[1]))
	case "matches":
		if err := need(1); err != nil {
			return err
		}
		rules, err := s.broker.Matches(args[0])
		if err != nil {
			s.report(err)
			return nil
		}
		for _, r := range rules {
			fmt.Fprintf(s.out, "  %s\n", r)
		}
	case "send":
		f, err := parseFilter(args)
		if err != nil {
			return err
		}
		ids := s.broker.Dispatch(f)
		if len(ids) == 0 {
			fmt.Fprintln(s.out, "-> (none)")
		} else {
			fmt.Fprintf(s.out, "-> %s\n", strings.Join(ids, " "))
		}
	case "stats":
		st := s.broker.Stats()
		fmt.Fprintf(s.out, "peers=%d rules=%d refs=%d registries=%d dispatched=%d delivered=%d\n",
			st.Peers, st.Rules, st.References, st.Registries, st.Dispatched, st.Delivered)
	default:
		return fmt.Errorf("unknown command %q", op)
	}
	return nil
}

// report prints a broker error with its D-Bus name.
func (s *script) report(err error) {
	if err == nil {
		return
	}
	s.failed++
	fmt.Fprintf(s.out, "! %s: %v\n", match_bus.ErrorName(err), err)
}

//---------------------
// Filters
//---------------------

// parseFilter builds a message filter from field=value words. type is
// required; argN and argNpath set positional arguments.
func parseFilter(words []string) (*match_type.Filter, error) {
	var f match_type.Filter
	for _, w := range words {
		key, value, ok := strings.Cut(w, "=")
		if !ok {
			return nil, fmt.Errorf("send: %q is not field=value", w)
		}

		v := match_str.Of(value)
		switch key {
		case "type":
			t, ok := match_type.ParseMessageType(value)
			if !ok {
				return nil, fmt.Errorf("send: unknown type %q", value)
			}
			f.Type = t
		case "sender":
			f.Sender = v
		case "destination":
			f.Destination = v
		case "interface":
			f.Interface = v
		case "member":
			f.Member = v
		case "path":
			f.Path = v
		default:
			if err := setArg(&f, key, v); err != nil {
				return nil, err
			}
		}
	}
	if f.Type == match_type.TypeInvalid {
		return nil, fmt.Errorf("send: type is required")
	}
	return &f, nil
}

func setArg(f *match_type.Filter, key string, v match_str.Str) error {
	rest, ok := strings.CutPrefix(key, "arg")
	if !ok {
		return fmt.Errorf("send: unknown field %q", key)
	}
	digits, isPath := strings.CutSuffix(rest, "path")

	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || n >= match_type.NArgs {
		return fmt.Errorf("send: bad argument field %q", key)
	}
	if isPath {
		f.ArgPaths[n] = v
	} else {
		f.Args[n] = v
	}
	return nil
}
