// Package script replays gesture scripts against a headless sheet. A script
// fixes the geometry, the initial attributes and an ordered list of steps;
// the runner records a snapshot of the engine after every step.
package script

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Step kinds.
const (
	KindAttach   = "attach"
	KindDetach   = "detach"
	KindSet      = "set"
	KindRemove   = "remove"
	KindStart    = "start"
	KindMove     = "move"
	KindEnd      = "end"
	KindClick    = "click"
	KindFrame    = "frame"
	KindOpen     = "open"
	KindMinimize = "minimize"
	KindClose    = "close"
	KindWait     = "wait"
	KindResize   = "resize"
)

var bareKinds = map[string]bool{
	KindAttach: true, KindDetach: true, KindEnd: true, KindFrame: true,
	KindOpen: true, KindMinimize: true, KindClose: true,
}

// DefaultStepInterval is the virtual time that passes between steps.
const DefaultStepInterval = 16 * time.Millisecond

// Script is a parsed gesture script.
type Script struct {
	Name       string            `yaml:"name"`
	Viewport   float64           `yaml:"viewport"`
	Header     float64           `yaml:"header"`
	Handle     float64           `yaml:"handle"`
	Body       float64           `yaml:"body"`
	Touch      bool              `yaml:"touch"`
	Interval   time.Duration     `yaml:"interval"`
	Attributes map[string]string `yaml:"attributes"`
	Steps      []Step            `yaml:"steps"`
}

// Step is one scripted action. Which fields matter depends on Kind.
type Step struct {
	Kind     string
	Y        float64       // start, move, end
	HasY     bool          // end may omit Y
	Name     string        // set, remove
	Value    string        // set
	Target   string        // click: overlay or content
	Duration time.Duration // wait
	Count    int           // frame
	Viewport float64       // resize
	Body     float64       // resize
}

type setArgs struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type resizeArgs struct {
	Viewport float64 `yaml:"viewport"`
	Body     float64 `yaml:"body"`
}

// UnmarshalYAML accepts a bare kind ("attach") or a single-key mapping
// ("start: 120", "set: {name: open}").
func (s *Step) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		kind := strings.TrimSpace(n.Value)
		if !bareKinds[kind] {
			return fmt.Errorf("line %d: step %q needs an argument", n.Line, kind)
		}
		s.Kind = kind
		if kind == KindFrame {
			s.Count = 1
		}
		return nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return fmt.Errorf("line %d: a step has exactly one key", n.Line)
		}
		s.Kind = n.Content[0].Value
		return s.decodeArg(n.Content[1])
	default:
		return fmt.Errorf("line %d: unexpected step node", n.Line)
	}
}

func (s *Step) decodeArg(arg *yaml.Node) error {
	switch s.Kind {
	case KindStart, KindMove, KindEnd:
		s.HasY = true
		return arg.Decode(&s.Y)
	case KindSet:
		if arg.Kind == yaml.ScalarNode {
			s.Name = arg.Value
			return nil
		}
		var a setArgs
		if err := arg.Decode(&a); err != nil {
			return err
		}
		if a.Name == "" {
			return fmt.Errorf("line %d: set needs a name", arg.Line)
		}
		s.Name, s.Value = a.Name, a.Value
		return nil
	case KindRemove:
		return arg.Decode(&s.Name)
	case KindClick:
		if err := arg.Decode(&s.Target); err != nil {
			return err
		}
		if s.Target != "overlay" && s.Target != "content" {
			return fmt.Errorf("line %d: click target %q (want overlay or content)", arg.Line, s.Target)
		}
		return nil
	case KindWait:
		var raw string
		if err := arg.Decode(&raw); err != nil {
			return err
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("line %d: wait: %w", arg.Line, err)
		}
		s.Duration = d
		return nil
	case KindFrame:
		return arg.Decode(&s.Count)
	case KindResize:
		var a resizeArgs
		if err := arg.Decode(&a); err != nil {
			return err
		}
		s.Viewport, s.Body = a.Viewport, a.Body
		return nil
	}
	if bareKinds[s.Kind] {
		return fmt.Errorf("line %d: step %q takes no argument", arg.Line, s.Kind)
	}
	return fmt.Errorf("line %d: unknown step %q", arg.Line, s.Kind)
}

// Parse reads a script from r.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Validate checks the geometry.
func (s *Script) Validate() error {
	if s.Viewport <= 0 {
		return fmt.Errorf("viewport must be positive, got %v", s.Viewport)
	}
	if s.Header < 0 || s.Handle < 0 || s.Body < 0 {
		return fmt.Errorf("heights must not be negative")
	}
	if s.Interval < 0 {
		return fmt.Errorf("interval must not be negative")
	}
	return nil
}
