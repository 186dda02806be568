package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
)

var hashSeed = maphash.MakeSeed()

// Hash returns a 64-bit structural hash of the node. Equal structure
// hashes equal; node identity does not participate. KeyString falls
// back to it for composite mapping keys that carry no name.
// It panics if n is nil.
func Hash(n *Node) uint64 {
	if n == nil {
		panic("ir: Hash called on nil node")
	}
	var h maphash.Hash
	h.SetSeed(hashSeed)
	hashInto(&h, n)
	return h.Sum64()
}

func hashInto(h *maphash.Hash, n *Node) {
	h.WriteByte(byte(n.Type))
	switch n.Type {
	case LeafType:
		h.WriteByte(byte(n.Scalar))
		switch n.Scalar {
		case IntScalar:
			var b [8]byte
			if n.Int64 != nil {
				binary.LittleEndian.PutUint64(b[:], uint64(*n.Int64))
			}
			h.Write(b[:])
		case FloatScalar:
			var b [8]byte
			if n.Float64 != nil {
				binary.LittleEndian.PutUint64(b[:], math.Float64bits(*n.Float64))
			}
			h.Write(b[:])
		case StringScalar:
			h.WriteString(n.Str)
		case BoolScalar:
			if n.Bool {
				h.WriteByte(1)
			} else {
				h.WriteByte(0)
			}
		case HandleScalar:
			h.WriteString(n.Handle)
		}
	case CompositeType:
		h.WriteString(n.Kind)
		for i, f := range n.Fields {
			h.WriteString(f)
			hashChild(h, n.Values[i])
		}
	case SequenceType:
		for _, v := range n.Values {
			hashChild(h, v)
		}
	case MappingType:
		for i, k := range n.Keys {
			hashChild(h, k)
			hashChild(h, n.Values[i])
		}
	}
}

func hashChild(h *maphash.Hash, n *Node) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], Hash(n))
	h.Write(b[:])
}
