package parser

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]*Grammar{
		FormatApache: apacheGrammar,
		FormatNginx:  nginxGrammar,
		FormatIIS:    iisGrammar,
		FormatTomcat: tomcatGrammar,
	}
)

// Register adds a grammar under its name. Names are case-sensitive and may not be
// registered twice.
func Register(g *Grammar) error {
	if g == nil {
		return fmt.Errorf("%w: nil grammar", ErrGrammarShape)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[g.Name()]; ok {
		return fmt.Errorf("grammar %q already registered", g.Name())
	}
	registry[g.Name()] = g
	return nil
}

// Lookup returns the grammar registered under name.
func Lookup(name string) (*Grammar, error) {
	registryMu.RLock()
	g, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnsupportedFormatError{Format: name}
	}
	return g, nil
}

// Supported reports whether name has a registered grammar.
func Supported(name string) bool {
	_, err := Lookup(name)
	return err == nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns a parser for the named format bound to src. The source is not
// inspected until the parser is iterated.
func New(format string, src LineSource, opts ...Option) (*Parser, error) {
	g, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	return newParser(g, src, opts...), nil
}
