// Package parse reads and writes IR trees as YAML or JSON documents.
//
// A document node carries exactly one of: a scalar field (int, float,
// str, bool, handle), a composite (kind plus fields), a sequence (seq),
// a mapping (map), or a reference (ref) to a node carrying an id.
// References rebuild shared nodes, so a variable bound by a loop and
// used in its body decodes to one node object, the way the constructors
// build it. Composite fields decode in field-name order, and a ref must
// decode after the node carrying its id; Encode emits ids accordingly.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/tensorir/go-tir/ir"
)

var (
	ErrBadDocument = errors.New("bad tree document")
	ErrBadFormat   = errors.New("unknown document format")
)

// Format selects the document encoding.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

type nodeDTO struct {
	Int    *int64   `yaml:"int,omitempty" json:"int,omitempty"`
	Float  *float64 `yaml:"float,omitempty" json:"float,omitempty"`
	Str    *string  `yaml:"str,omitempty" json:"str,omitempty"`
	Bool   *bool    `yaml:"bool,omitempty" json:"bool,omitempty"`
	Handle *string  `yaml:"handle,omitempty" json:"handle,omitempty"`

	Kind   string              `yaml:"kind,omitempty" json:"kind,omitempty"`
	Fields map[string]*nodeDTO `yaml:"fields,omitempty" json:"fields,omitempty"`

	// Pointers to slices so an explicit empty sequence or mapping
	// survives omitempty.
	Seq *[]*nodeDTO `yaml:"seq,omitempty" json:"seq,omitempty"`
	Map *[]*pairDTO `yaml:"map,omitempty" json:"map,omitempty"`

	ID  string `yaml:"id,omitempty" json:"id,omitempty"`
	Ref string `yaml:"ref,omitempty" json:"ref,omitempty"`
}

type pairDTO struct {
	Key *nodeDTO `yaml:"key" json:"key"`
	Val *nodeDTO `yaml:"val" json:"val"`
}

// Decode builds a tree from a document in the given format.
func Decode(data []byte, format Format) (*ir.Node, error) {
	dto := &nodeDTO{}
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, dto); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
		}
	case JSON:
		if err := json.Unmarshal(data, dto); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadFormat, format)
	}
	d := &decoder{shared: map[string]*ir.Node{}}
	return d.node(dto)
}

// File reads a document, picking the format from the extension:
// .json decodes as JSON, everything else as YAML.
func File(path string) (*ir.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := YAML
	if filepath.Ext(path) == ".json" {
		format = JSON
	}
	return Decode(data, format)
}

type decoder struct {
	shared map[string]*ir.Node
}

func (d *decoder) node(dto *nodeDTO) (*ir.Node, error) {
	if dto == nil {
		return nil, fmt.Errorf("%w: null node", ErrBadDocument)
	}
	if dto.Ref != "" {
		n := d.shared[dto.Ref]
		if n == nil {
			return nil, fmt.Errorf("%w: ref %q before its declaration", ErrBadDocument, dto.Ref)
		}
		return n, nil
	}

	n, err := d.build(dto)
	if err != nil {
		return nil, err
	}
	if dto.ID != "" {
		if d.shared[dto.ID] != nil {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrBadDocument, dto.ID)
		}
		d.shared[dto.ID] = n
	}
	return n, nil
}

func (d *decoder) build(dto *nodeDTO) (*ir.Node, error) {
	switch {
	case dto.Int != nil:
		return ir.FromInt(*dto.Int), nil
	case dto.Float != nil:
		return ir.FromFloat(*dto.Float), nil
	case dto.Str != nil:
		return ir.FromString(*dto.Str), nil
	case dto.Bool != nil:
		return ir.FromBool(*dto.Bool), nil
	case dto.Handle != nil:
		return ir.FromHandle(*dto.Handle), nil

	case dto.Kind != "":
		// Field insertion order does not matter downstream; decode in
		// name order for reproducible trees.
		names := make([]string, 0, len(dto.Fields))
		for name := range dto.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		fields := make([]ir.Field, 0, len(names))
		for _, name := range names {
			v, err := d.node(dto.Fields[name])
			if err != nil {
				return nil, err
			}
			fields = append(fields, ir.Field{Name: name, Value: v})
		}
		return ir.NewComposite(dto.Kind, fields), nil

	case dto.Seq != nil:
		elems := make([]*ir.Node, len(*dto.Seq))
		for i, e := range *dto.Seq {
			v, err := d.node(e)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return ir.NewSequence(elems), nil

	case dto.Map != nil:
		entries := make([]ir.KeyVal, len(*dto.Map))
		for i, p := range *dto.Map {
			if p == nil || p.Key == nil || p.Val == nil {
				return nil, fmt.Errorf("%w: mapping entry %d lacks key or val", ErrBadDocument, i)
			}
			k, err := d.node(p.Key)
			if err != nil {
				return nil, err
			}
			v, err := d.node(p.Val)
			if err != nil {
				return nil, err
			}
			entries[i] = ir.KeyVal{Key: k, Val: v}
		}
		return ir.NewMapping(entries), nil
	}
	return nil, fmt.Errorf("%w: node carries no value", ErrBadDocument)
}

// Encode writes the tree as a document in the given format. Nodes
// reached through more than one parent are declared once with a
// generated id and referenced afterwards, so decoding rebuilds the same
// sharing.
func Encode(root *ir.Node, format Format) ([]byte, error) {
	e := &encoder{ids: map[ir.NodeID]string{}}
	e.countUses(root)
	dto := e.node(root)
	switch format {
	case YAML:
		return yaml.Marshal(dto)
	case JSON:
		return json.MarshalIndent(dto, "", "  ")
	}
	return nil, fmt.Errorf("%w: %q", ErrBadFormat, format)
}

type encoder struct {
	uses map[ir.NodeID]int
	ids  map[ir.NodeID]string
	next int
}

func (e *encoder) countUses(root *ir.Node) {
	e.uses = map[ir.NodeID]int{}
	_ = root.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if isPost {
			return true, nil
		}
		e.uses[n.ID()]++
		// Dive only on first sight; later use-sites just count.
		return e.uses[n.ID()] == 1, nil
	})
}

func (e *encoder) node(n *ir.Node) *nodeDTO {
	if id, ok := e.ids[n.ID()]; ok {
		return &nodeDTO{Ref: id}
	}
	dto := &nodeDTO{}
	if e.uses[n.ID()] > 1 {
		e.next++
		dto.ID = "n" + strconv.Itoa(e.next)
		e.ids[n.ID()] = dto.ID
	}

	switch n.Type {
	case ir.LeafType:
		switch n.Scalar {
		case ir.IntScalar:
			dto.Int = n.Int64
		case ir.FloatScalar:
			dto.Float = n.Float64
		case ir.StringScalar:
			s := n.Str
			dto.Str = &s
		case ir.BoolScalar:
			b := n.Bool
			dto.Bool = &b
		case ir.HandleScalar:
			h := n.Handle
			dto.Handle = &h
		}
	case ir.CompositeType:
		dto.Kind = n.Kind
		dto.Fields = map[string]*nodeDTO{}
		// Emit fields in the order the decoder reads them, so a shared
		// node's id always precedes its refs.
		names := append([]string(nil), n.Fields...)
		sort.Strings(names)
		for _, f := range names {
			dto.Fields[f] = e.node(ir.Get(n, f))
		}
	case ir.SequenceType:
		seq := make([]*nodeDTO, len(n.Values))
		for i, v := range n.Values {
			seq[i] = e.node(v)
		}
		dto.Seq = &seq
	case ir.MappingType:
		m := make([]*pairDTO, len(n.Keys))
		for i, k := range n.Keys {
			m[i] = &pairDTO{Key: e.node(k), Val: e.node(n.Values[i])}
		}
		dto.Map = &m
	}
	return dto
}
