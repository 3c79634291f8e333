package parser

import (
	"fmt"
	"regexp"
)

// Capture group names a grammar pattern exposes to the extractor.
const (
	groupAddr    = "addr"
	groupUser    = "user"
	groupTime    = "time"
	groupRequest = "request"
	groupStatus  = "status"
	groupBytes   = "bytes"
	groupReferer = "referer"
	groupAgent   = "agent"
)

type slot int

const (
	slotAddr slot = iota
	slotUser
	slotTime
	slotRequest
	slotStatus
	slotBytes
	slotReferer
	slotAgent
	numSlots
)

var slotGroups = [numSlots]string{
	slotAddr:    groupAddr,
	slotUser:    groupUser,
	slotTime:    groupTime,
	slotRequest: groupRequest,
	slotStatus:  groupStatus,
	slotBytes:   groupBytes,
	slotReferer: groupReferer,
	slotAgent:   groupAgent,
}

// Grammar is an immutable line pattern for one log family. Safe for concurrent use.
type Grammar struct {
	name string
	re   *regexp.Regexp
	// submatch index per slot, -1 when the format does not carry the field
	index [numSlots]int
}

// NewGrammar compiles pattern in dot-all mode and checks that it exposes the named
// groups addr, time, request, status, bytes, referer and agent exactly once. The user
// group is optional; formats without it report the placeholder "-". Unnamed groups
// are matched but never stored.
func NewGrammar(name, pattern string) (*Grammar, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty grammar name", ErrGrammarShape)
	}

	re, err := regexp.Compile("(?s)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("grammar %s: compile: %w", name, err)
	}

	g := &Grammar{name: name, re: re}
	for i := range g.index {
		g.index[i] = -1
	}

	for i, group := range re.SubexpNames() {
		if group == "" {
			continue
		}
		s, ok := slotFor(group)
		if !ok {
			return nil, fmt.Errorf("%w: grammar %s: unknown group %q", ErrGrammarShape, name, group)
		}
		if g.index[s] != -1 {
			return nil, fmt.Errorf("%w: grammar %s: group %q defined twice", ErrGrammarShape, name, group)
		}
		g.index[s] = i
	}

	for s, idx := range g.index {
		if idx == -1 && slot(s) != slotUser {
			return nil, fmt.Errorf("%w: grammar %s: missing group %q", ErrGrammarShape, name, slotGroups[s])
		}
	}

	return g, nil
}

func mustGrammar(name, pattern string) *Grammar {
	g, err := NewGrammar(name, pattern)
	if err != nil {
		panic(err)
	}
	return g
}

func slotFor(group string) (slot, bool) {
	for s, name := range slotGroups {
		if name == group {
			return slot(s), true
		}
	}
	return 0, false
}

// Name returns the format name the grammar is registered under.
func (g *Grammar) Name() string {
	return g.name
}

// String returns the compiled pattern.
func (g *Grammar) String() string {
	return g.re.String()
}

// fields is the 8-tuple extracted from one match.
type fields [numSlots]string

// matches returns every non-overlapping match in line, left to right.
func (g *Grammar) matches(line string) []fields {
	locs := g.re.FindAllStringSubmatchIndex(line, -1)
	if len(locs) == 0 {
		return nil
	}

	out := make([]fields, 0, len(locs))
	for _, loc := range locs {
		var f fields
		for s, idx := range g.index {
			switch {
			case idx == -1:
				f[s] = Placeholder
			case loc[2*idx] >= 0:
				f[s] = line[loc[2*idx]:loc[2*idx+1]]
			}
		}
		out = append(out, f)
	}
	return out
}
