package oplib

import (
	"strings"
	"sync"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/zerr"
)

// Library is a registration scope. Everything registered through it is
// removed from the dispatcher when it is closed.
type Library struct {
	dispatcher *Dispatcher
	namespace  string
	kind       domain.LibraryKind
	id         string

	mu     sync.Mutex
	closed bool
}

// Namespace returns the namespace operators are registered under.
func (l *Library) Namespace() string {
	return l.namespace
}

// Kind returns the library kind.
func (l *Library) Kind() domain.LibraryKind {
	return l.kind
}

// ID identifies the library in operator records.
func (l *Library) ID() string {
	return l.id
}

// Define defines an operator from "name(args) -> ret". The name may carry the
// library namespace as "namespace::name". Defining an existing operator fails
// with domain.ErrOperatorExists.
func (l *Library) Define(nameAndSchema string, tags ...domain.Tag) (string, error) {
	if err := l.check(); err != nil {
		return "", err
	}
	if l.kind == domain.LibraryImpl {
		return "", zerr.With(zerr.Wrap(domain.ErrNamespaceMismatch, "IMPL libraries cannot define operators"),
			"library", l.id)
	}

	idx := strings.IndexByte(nameAndSchema, '(')
	if idx <= 0 {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidOperatorName, "define operator"), "schema", nameAndSchema)
	}
	name, err := l.localName(strings.TrimSpace(nameAndSchema[:idx]))
	if err != nil {
		return "", err
	}

	rec := domain.OperatorRecord{
		Namespace: l.namespace,
		Name:      name,
		Schema:    nameAndSchema[idx:],
		Tags:      tags,
	}
	if err := l.dispatcher.define(l.id, rec); err != nil {
		return "", err
	}
	return rec.QualifiedName(), nil
}

// Impl binds kernel to an operator for key.
func (l *Library) Impl(name string, kernel domain.Kernel, key domain.DispatchKey) error {
	if err := l.check(); err != nil {
		return err
	}
	local, err := l.localName(name)
	if err != nil {
		return err
	}
	return l.dispatcher.impl(l.id, domain.QualifiedName(l.namespace, local), key, kernel)
}

// RegisterFake attaches the shape-only implementation of an operator.
func (l *Library) RegisterFake(name string, kernel domain.Kernel) error {
	if err := l.check(); err != nil {
		return err
	}
	local, err := l.localName(name)
	if err != nil {
		return err
	}
	return l.dispatcher.registerFake(l.id, domain.QualifiedName(l.namespace, local), kernel)
}

// Close unregisters every definition and kernel made through the library.
// Closing twice is a no-op.
func (l *Library) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.dispatcher.release(l.id)
}

func (l *Library) check() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return zerr.With(zerr.Wrap(domain.ErrLibraryClosed, "library"), "library", l.id)
	}
	return nil
}

func (l *Library) localName(name string) (string, error) {
	if ns, local, ok := domain.SplitQualifiedName(name); ok {
		if ns != l.namespace {
			return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrNamespaceMismatch, "operator name"),
				"op", name), "namespace", l.namespace)
		}
		name = local
	}
	if !isOpName(name) {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidOperatorName, "operator name"), "op", name)
	}
	return name, nil
}
