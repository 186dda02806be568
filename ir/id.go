package ir

import "sync/atomic"

// NodeID is a stable handle identifying one node object. Two distinct
// node objects never share an ID, even across trees, so span tables and
// binding bijections can key on it without comparing structure.
type NodeID uint64

var idCounter atomic.Uint64

func newID() NodeID {
	return NodeID(idCounter.Add(1))
}
