// Package oplib is the operator registry: registration scopes that define
// operators from schema strings, and the dispatcher that routes calls to the
// kernel bound for a dispatch key.
package oplib

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/zerr"
)

type operator struct {
	record  domain.OperatorRecord
	minArgs int
	maxArgs int

	kernels map[domain.DispatchKey]binding
	fake    *binding
}

type binding struct {
	kernel domain.Kernel
	owner  string
}

// Dispatcher is the process-wide operator table keyed by "namespace::name".
type Dispatcher struct {
	mu        sync.RWMutex
	ops       map[string]*operator
	defOwners map[string]string
	nextLib   int
}

// NewDispatcher creates an empty operator table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		ops:       make(map[string]*operator),
		defOwners: make(map[string]string),
	}
}

// NewLibrary opens a registration scope for namespace. Only one DEF library
// may own a namespace at a time.
func (d *Dispatcher) NewLibrary(namespace string, kind domain.LibraryKind) (*Library, error) {
	if !isOpName(namespace) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidOperatorName, "invalid namespace"), "namespace", namespace)
	}
	switch kind {
	case domain.LibraryDef, domain.LibraryFragment, domain.LibraryImpl:
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidOperatorName, "unknown library kind"), "kind", kind)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextLib++
	id := fmt.Sprintf("%s/%s#%d", namespace, kind, d.nextLib)
	if kind == domain.LibraryDef {
		if owner, ok := d.defOwners[namespace]; ok {
			return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrNamespaceMismatch, "namespace already owned"),
				"namespace", namespace), "owner", owner)
		}
		d.defOwners[namespace] = id
	}
	return &Library{
		dispatcher: d,
		namespace:  namespace,
		kind:       kind,
		id:         id,
	}, nil
}

func (d *Dispatcher) define(owner string, rec domain.OperatorRecord) error {
	minArgs, maxArgs, err := schemaArity(rec.Schema)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	qualified := rec.QualifiedName()
	if existing, ok := d.ops[qualified]; ok {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrOperatorExists, "define operator"),
			"op", qualified), "schema", existing.record.Schema)
	}
	rec.Library = owner
	d.ops[qualified] = &operator{
		record:  rec,
		minArgs: minArgs,
		maxArgs: maxArgs,
		kernels: make(map[domain.DispatchKey]binding),
	}
	return nil
}

func (d *Dispatcher) impl(owner, qualified string, key domain.DispatchKey, k domain.Kernel) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	op, ok := d.ops[qualified]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrOperatorNotFound, "bind kernel"), "op", qualified)
	}
	if _, exists := op.kernels[key]; exists {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrKernelExists, "bind kernel"),
			"op", qualified), "dispatch_key", key)
	}
	op.kernels[key] = binding{kernel: k, owner: owner}
	return nil
}

func (d *Dispatcher) registerFake(owner, qualified string, k domain.Kernel) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	op, ok := d.ops[qualified]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrOperatorNotFound, "register fake"), "op", qualified)
	}
	if op.fake != nil {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrKernelExists, "register fake"),
			"op", qualified), "dispatch_key", domain.DispatchMeta)
	}
	op.fake = &binding{kernel: k, owner: owner}
	return nil
}

// release drops everything owner registered.
func (d *Dispatcher) release(owner string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for ns, id := range d.defOwners {
		if id == owner {
			delete(d.defOwners, ns)
		}
	}
	for name, op := range d.ops {
		if op.record.Library == owner {
			delete(d.ops, name)
			continue
		}
		for key, b := range op.kernels {
			if b.owner == owner {
				delete(op.kernels, key)
			}
		}
		if op.fake != nil && op.fake.owner == owner {
			op.fake = nil
		}
	}
}

func (d *Dispatcher) resolve(name string, args []any) (*operator, error) {
	op, ok := d.ops[name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrOperatorNotFound, "call operator"), "op", name)
	}
	if len(args) < op.minArgs || len(args) > op.maxArgs {
		return nil, zerr.With(zerr.With(zerr.With(zerr.Wrap(domain.ErrArgumentCount, "call operator"),
			"op", name), "got", len(args)), "schema", op.record.Schema)
	}
	return op, nil
}

// Call runs the kernel bound to key, falling back to a
// CompositeExplicitAutograd kernel when key has none.
func (d *Dispatcher) Call(name string, key domain.DispatchKey, args ...any) (any, error) {
	d.mu.RLock()
	op, err := d.resolve(name, args)
	if err != nil {
		d.mu.RUnlock()
		return nil, err
	}
	b, ok := op.kernels[key]
	if !ok {
		b, ok = op.kernels[domain.DispatchCompositeExplicitAutograd]
	}
	d.mu.RUnlock()

	if !ok {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrNoKernel, "call operator"),
			"op", name), "dispatch_key", key)
	}
	return b.kernel(args...)
}

// CallFake runs the shape-only implementation of an operator.
func (d *Dispatcher) CallFake(name string, args ...any) (any, error) {
	d.mu.RLock()
	op, err := d.resolve(name, args)
	if err != nil {
		d.mu.RUnlock()
		return nil, err
	}
	fake := op.fake
	d.mu.RUnlock()

	if fake == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoFakeKernel, "call fake"), "op", name)
	}
	return fake.kernel(args...)
}

// Lookup returns the record of a registered operator.
func (d *Dispatcher) Lookup(name string) (domain.OperatorRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	op, ok := d.ops[name]
	if !ok {
		return domain.OperatorRecord{}, false
	}
	return op.snapshot(), true
}

// Operators returns every registered operator, ordered by qualified name.
func (d *Dispatcher) Operators() []domain.OperatorRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := slices.Sorted(maps.Keys(d.ops))
	records := make([]domain.OperatorRecord, 0, len(names))
	for _, name := range names {
		records = append(records, d.ops[name].snapshot())
	}
	return records
}

func (op *operator) snapshot() domain.OperatorRecord {
	rec := op.record
	rec.Tags = slices.Clone(rec.Tags)
	rec.DispatchKeys = slices.Sorted(maps.Keys(op.kernels))
	rec.HasFake = op.fake != nil
	return rec
}

// schemaArity returns the accepted argument counts of "(args) -> ret".
func schemaArity(schema string) (minArgs, maxArgs int, err error) {
	invalid := func() error {
		return zerr.With(zerr.Wrap(domain.ErrInvalidSignature, "malformed schema"), "schema", schema)
	}

	if !strings.HasPrefix(schema, "(") {
		return 0, 0, invalid()
	}
	depth, end := 0, -1
	for i, c := range schema {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && end < 0 {
				end = i
			}
		}
	}
	if end < 0 || depth != 0 || !strings.HasPrefix(strings.TrimSpace(schema[end+1:]), "->") {
		return 0, 0, invalid()
	}

	args := strings.TrimSpace(schema[1:end])
	if args == "" {
		return 0, 0, nil
	}
	for _, arg := range splitArgs(args) {
		arg = strings.TrimSpace(arg)
		if arg == "*" {
			continue
		}
		if arg == "" || !strings.Contains(arg, " ") {
			return 0, 0, invalid()
		}
		maxArgs++
		if !strings.Contains(arg, "=") {
			minArgs = maxArgs
		}
	}
	return minArgs, maxArgs, nil
}

func splitArgs(s string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, c := range s {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// isOpName reports whether s is an identifier, optionally followed by a
// ".overload" suffix.
func isOpName(s string) bool {
	base, overload, hasOverload := strings.Cut(s, ".")
	if hasOverload && !isIdent(overload) {
		return false
	}
	return isIdent(base)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isLetter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}
