// Package registry maps operation names to their primitives and batching
// rules.
//
// The table is static: it is built once per process by Default and never
// changes afterwards. Every entry boxes its typed rule behind the uniform
// RuleFunc and PrimitiveFunc signatures so that a dispatcher can call any
// operation by name.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/born-ml/vmap/internal/backend/cpu"
	"github.com/born-ml/vmap/internal/tensor"
	"github.com/born-ml/vmap/internal/vmap"
)

// OpKey identifies an operation overload, e.g. {"add", "Tensor"}.
type OpKey struct {
	Name     string
	Overload string
}

// String returns "name.overload", or the bare name for the default overload.
func (k OpKey) String() string {
	if k.Overload == "" {
		return k.Name
	}
	return k.Name + "." + k.Overload
}

// ParseOpKey parses "name.overload" or "name".
func ParseOpKey(s string) OpKey {
	name, overload, _ := strings.Cut(s, ".")
	return OpKey{Name: name, Overload: overload}
}

// Kind is the rule variant an entry is bound to.
type Kind int

// Rule variants.
const (
	KindBinary Kind = iota
	KindUnary
	KindComparison
	KindInplace
	KindUnaryInplace
	KindRandom
	KindWhere
	KindMaskedSelect
	KindCdistBackward
	KindDecomposition
	KindVariadic
)

var kindNames = [...]string{
	KindBinary:        "binary",
	KindUnary:         "unary",
	KindComparison:    "comparison",
	KindInplace:       "inplace",
	KindUnaryInplace:  "unary_inplace",
	KindRandom:        "random",
	KindWhere:         "where",
	KindMaskedSelect:  "masked_select",
	KindCdistBackward: "cdist_backward",
	KindDecomposition: "decomposition",
	KindVariadic:      "variadic",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Mutates reports whether the operation writes into its first operand.
func (k Kind) Mutates() bool {
	return k == KindInplace || k == KindUnaryInplace
}

// Call is one invocation of a batching rule.
type Call struct {
	Layer  vmap.Layer
	Args   []vmap.Operand
	Params any
}

// RuleFunc runs a batching rule. In-place rules return their receiver.
type RuleFunc func(c Call) (vmap.Operand, error)

// PrimitiveFunc runs the operation directly on unbatched arrays. In-place
// primitives return their receiver.
type PrimitiveFunc func(args []*tensor.RawTensor, params any) (*tensor.RawTensor, error)

// Entry binds an operation to its primitive and batching rule.
type Entry struct {
	Key   OpKey
	Kind  Kind
	Arity int

	// Defaults are the parameters used when a call passes none.
	Defaults any

	Rule      RuleFunc
	Primitive PrimitiveFunc

	decode func(decode func(any) error) (any, error)
}

// DecodeParams builds the entry's parameters, starting from Defaults, with
// decode, which fills a pointer to the parameter struct (a yaml.Node's
// Decode, for instance).
func (e *Entry) DecodeParams(decode func(any) error) (any, error) {
	return e.decode(decode)
}

// Registry is the operation table.
type Registry struct {
	entries map[OpKey]*Entry
	keys    []OpKey
}

// New builds the table over the primitives of backend.
func New(backend *cpu.CPUBackend) *Registry {
	r := &Registry{entries: make(map[OpKey]*Entry)}
	registerArithmetic(r, backend)
	registerComparisons(r, backend)
	registerInplace(r, backend)
	registerSpecial(r, backend)
	registerVariadic(r, backend)
	slices.SortFunc(r.keys, func(a, b OpKey) int {
		return strings.Compare(a.String(), b.String())
	})
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide table over a default CPU backend. It is
// built on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New(cpu.New())
	})
	return defaultRegistry
}

// Lookup returns the entry for key.
func (r *Registry) Lookup(key OpKey) (*Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

// Keys returns every registered key, sorted by name.
func (r *Registry) Keys() []OpKey {
	return slices.Clone(r.keys)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.keys)
}

func (r *Registry) add(e *Entry) {
	if _, dup := r.entries[e.Key]; dup {
		panic(fmt.Sprintf("registry: duplicate registration of %s", e.Key))
	}
	r.entries[e.Key] = e
	r.keys = append(r.keys, e.Key)
}
