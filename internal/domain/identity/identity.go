// Package identity canonicalizes country labels and codes so that records
// written under historical or inconsistent names aggregate under one key.
//
// A Normalizer is immutable after construction and safe for concurrent use.
// Normalize is total and idempotent: unknown labels pass through (trimmed,
// whitespace collapsed) and canonical labels map to themselves.
package identity

import (
	"strings"
)

// Discard is returned by Normalize for placeholder labels. Records carrying
// it must be dropped from aggregation.
const Discard = "<discard>"

// maxChain bounds alias chain resolution.
const maxChain = 16

// Normalizer resolves raw labels against one consolidated alias table.
type Normalizer struct {
	aliases map[string]string // lowercased label -> canonical
	codes   map[string]string // uppercased code -> canonical
	discard map[string]struct{}
}

// Option configures a Normalizer.
type Option func(*builder)

type builder struct {
	aliases map[string]string
	codes   map[string]string
	discard []string
}

// WithAliases adds raw -> canonical pairs. They override built-in entries.
func WithAliases(aliases map[string]string) Option {
	return func(b *builder) {
		for raw, canonical := range aliases {
			b.aliases[raw] = canonical
		}
	}
}

// WithCodes adds code -> canonical pairs.
func WithCodes(codes map[string]string) Option {
	return func(b *builder) {
		for code, canonical := range codes {
			b.codes[code] = canonical
		}
	}
}

// WithDiscard marks additional labels as placeholders.
func WithDiscard(labels ...string) Option {
	return func(b *builder) {
		b.discard = append(b.discard, labels...)
	}
}

// New builds a Normalizer from the built-in tables plus options.
func New(opts ...Option) *Normalizer {
	b := &builder{
		aliases: make(map[string]string, len(builtinAliases)),
		codes:   make(map[string]string, len(builtinCodes)),
		discard: append([]string(nil), discardLabels...),
	}
	for k, v := range builtinAliases {
		b.aliases[k] = v
	}
	for k, v := range builtinCodes {
		b.codes[k] = v
	}
	for _, opt := range opts {
		opt(b)
	}

	n := &Normalizer{
		aliases: make(map[string]string, len(b.aliases)*2),
		codes:   make(map[string]string, len(b.codes)),
		discard: make(map[string]struct{}, len(b.discard)),
	}
	for _, d := range b.discard {
		n.discard[key(d)] = struct{}{}
	}

	for raw, canonical := range b.aliases {
		n.aliases[key(collapse(raw))] = collapse(canonical)
	}
	for _, canonical := range b.codes {
		c := collapse(canonical)
		if _, ok := n.aliases[key(c)]; !ok {
			n.aliases[key(c)] = c
		}
	}
	n.resolveChains()

	for code, canonical := range b.codes {
		label := n.Normalize(canonical)
		if label == Discard {
			continue
		}
		n.codes[strings.ToUpper(strings.TrimSpace(code))] = label
	}
	return n
}

// resolveChains rewrites every target to its fixed point (A->B, B->C gives
// A->C) and registers each final target as mapping to itself. Cyclic
// entries are dropped so their labels pass through unchanged. A chain that
// reaches a placeholder label resolves to Discard.
func (n *Normalizer) resolveChains() {
	resolved := make(map[string]string, len(n.aliases))
	for k, v := range n.aliases {
		target := v
		seen := map[string]struct{}{k: {}}
		cyclic := false
		for {
			tk := key(target)
			if _, drop := n.discard[tk]; drop {
				target = Discard
				break
			}
			next, ok := n.aliases[tk]
			if !ok || next == target {
				break
			}
			if _, loop := seen[tk]; loop || len(seen) > maxChain {
				cyclic = true
				break
			}
			seen[tk] = struct{}{}
			target = next
		}
		if !cyclic {
			resolved[k] = target
		}
	}
	for _, target := range resolved {
		if target == Discard {
			continue
		}
		if _, ok := resolved[key(target)]; !ok {
			resolved[key(target)] = target
		}
	}
	n.aliases = resolved
}

func (n *Normalizer) lookup(clean string) string {
	if v, ok := n.aliases[key(clean)]; ok {
		return v
	}
	return clean
}

// Normalize maps a raw label to its canonical form, or Discard.
func (n *Normalizer) Normalize(raw string) string {
	clean := collapse(raw)
	if _, drop := n.discard[key(clean)]; drop {
		return Discard
	}
	return n.lookup(clean)
}

// Resolve is Normalize with an explicit keep flag.
func (n *Normalizer) Resolve(raw string) (string, bool) {
	label := n.Normalize(raw)
	return label, label != Discard
}

// ResolveCode maps an NOC/ISO code to its canonical label.
func (n *Normalizer) ResolveCode(code string) (string, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return "", false
	}
	label, ok := n.codes[c]
	return label, ok
}

// ResolveRecord picks the canonical country for a record, falling back to
// its codes when the label is a placeholder.
func (n *Normalizer) ResolveRecord(country string, codes ...string) (string, bool) {
	if label, ok := n.Resolve(country); ok {
		return label, true
	}
	for _, code := range codes {
		if label, ok := n.ResolveCode(code); ok {
			return label, true
		}
	}
	return "", false
}

// Key returns the case-insensitive lookup key for a canonical label.
func Key(label string) string { return key(collapse(label)) }

func key(s string) string { return strings.ToLower(s) }

// collapse trims and squeezes runs of whitespace to one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
