package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// Redirect pairs a logical module name with the module that replaces it.
type Redirect struct {
	Logical string `json:"logical" yaml:"logical"`
	Target  string `json:"target" yaml:"target"`
}

// RedirectTable is an immutable logical→target lookup table.
// It is built once at startup and read for the lifetime of the process.
type RedirectTable struct {
	entries []Redirect
	index   map[string]string
}

// NewRedirectTable builds a table from the given pairs.
// Logical names must be unique and both sides must be valid module names.
func NewRedirectTable(redirects ...Redirect) (*RedirectTable, error) {
	t := &RedirectTable{
		entries: make([]Redirect, 0, len(redirects)),
		index:   make(map[string]string, len(redirects)),
	}
	for _, r := range redirects {
		if !ValidModuleName(r.Logical) || !ValidModuleName(r.Target) {
			return nil, zerr.With(zerr.With(zerr.Wrap(ErrInvalidModuleName, "redirect"),
				"logical", r.Logical), "target", r.Target)
		}
		if _, exists := t.index[r.Logical]; exists {
			return nil, zerr.With(zerr.Wrap(ErrDuplicateRedirect, "redirect"), "logical", r.Logical)
		}
		t.index[r.Logical] = r.Target
		t.entries = append(t.entries, r)
	}
	return t, nil
}

// Lookup returns the target for a logical name. A nil table never matches.
func (t *RedirectTable) Lookup(logical string) (string, bool) {
	if t == nil {
		return "", false
	}
	target, ok := t.index[logical]
	return target, ok
}

// Entries returns the redirects in declaration order.
func (t *RedirectTable) Entries() []Redirect {
	if t == nil {
		return nil
	}
	return slices.Clone(t.entries)
}

// Len returns the number of redirects.
func (t *RedirectTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// DefaultRedirects lists the host modules the plugin replaces.
func DefaultRedirects() []Redirect {
	return []Redirect{
		{Logical: "vllm.compilation.wrapper", Target: "vllm_kunlun.compilation.wrapper"},
		{Logical: "vllm.v1.worker.utils", Target: "vllm_kunlun.v1.worker.utils"},
		{
			Logical: "vllm.model_executor.model_loader.bitsandbytes_loader",
			Target:  "vllm_kunlun.models.model_loader.bitsandbytes_loader",
		},
		{Logical: "vllm.v1.sample.ops.topk_topp_sampler", Target: "vllm_kunlun.v1.sample.ops.topk_topp_sampler"},
		{Logical: "vllm.model_executor.layers.sampler", Target: "vllm_kunlun.ops.sample.sampler"},
		{Logical: "vllm.v1.sample.rejection_sampler", Target: "vllm_kunlun.v1.sample.rejection_sampler"},
		{Logical: "vllm.attention.ops.merge_attn_states", Target: "vllm_kunlun.ops.attention.merge_attn_states"},
	}
}
