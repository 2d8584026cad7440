package ropc

// Param is a declared macro parameter: a name plus an optional
// default (the raw text following `=` up to the next `,` or `)`).
type Param struct {
	Name    string
	Default *string
}

// MacroDef is the stored shape of a `*name`/`!name` definition: its
// declared parameters and its raw (unexpanded) body text.
type MacroDef struct {
	Params []Param
	Body   string
}

// Definitions holds the three sigiled name spaces described in
// spec.md §3. Redefinition policy is last-write-wins, library imports
// merging before program-text definitions take effect in source order.
type Definitions struct {
	GGT map[string]string
	SPF map[string]*MacroDef
	CPF map[string]*MacroDef
}

func NewDefinitions() *Definitions {
	return &Definitions{
		GGT: map[string]string{},
		SPF: map[string]*MacroDef{},
		CPF: map[string]*MacroDef{},
	}
}

// Merge copies every entry of `other` into d, last-write-wins.
func (d *Definitions) Merge(other *Definitions) {
	for k, v := range other.GGT {
		d.GGT[k] = v
	}
	for k, v := range other.SPF {
		d.SPF[k] = v
	}
	for k, v := range other.CPF {
		d.CPF[k] = v
	}
}

// Blocks maps a block name to its body text; it starts as the raw
// (unexpanded) body from preprocessing and is rewritten in place by
// each later pass.
type Blocks map[string]string

// LabelEntry is a resolved label: its absolute address and its
// byte-offset relative to the last `@rstoffst`, both formatted as
// 4-hex-digit strings (spec.md §3).
type LabelEntry struct {
	Absolute string
	Relative string
}

// LabelMap is rebuilt per block by the address resolver and consumed
// by the final emitter; blocks never share labels (spec.md §4.7).
type LabelMap map[string]LabelEntry

// Overwrite is a single post-emission patch recorded by `@overwrite`.
type Overwrite struct {
	Addr  string
	Value string
}
