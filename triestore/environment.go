// Package triestore implements the node-store environment (component C1):
// a transactional key/value environment with many-readers/single-writer
// discipline, partitioned into a trie-node region and a leaf-value region
// so the trie package never has to worry about collisions between a node
// hash and a value's storage key.
package triestore

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/casper-ecosystem/exec-engine-core/common"
)

// Partition prefixes separate trie-node bytes from leaf-value bytes
// within the same backing store, mirroring the split the teacher library
// uses between PartitionTrieNodes and PartitionValues.
const (
	PartitionTrieNodes byte = 0
	PartitionValues    byte = 1
)

// ErrStoreCorrupted reports a store that lacks a node or value some stored
// node references, or holds value bytes that do not decode; trie.Prove
// returns it, while trie.Read and globalstate panic with it. It should
// never happen for a store only ever written to by this module.
var ErrStoreCorrupted = errors.New("triestore: corrupted store")

// ErrIO wraps a lower-level storage failure (e.g. common.ErrDBUnavailable)
// so callers can match on it without depending on the storage backend.
var ErrIO = errors.New("triestore: I/O failure")

// wrapIO folds a possible panic from the underlying KVStore (badger's
// adaptor panics on common.ErrDBUnavailable rather than returning it)
// into a plain error, so Environment.Read/Update never panics on a
// closed store.
func wrapIO(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, common.ErrDBUnavailable) {
				err = fmt.Errorf("%w: %v", ErrIO, e)
				return
			}
			panic(r)
		}
	}()
	f()
	return nil
}

// backingStore is the minimal capability an Environment needs from its
// storage backend: both InMemoryKVStore and the badger adaptor satisfy it.
type backingStore interface {
	common.KVStore
	common.BatchedUpdatable
	common.Traversable
}

// ReadTxn exposes read-only, partitioned access for the duration of a
// single Environment.Read call.
type ReadTxn interface {
	Nodes() common.KVTraversableReader
	Values() common.KVTraversableReader
}

// RwTxn additionally exposes buffered, partitioned writes; mutations are
// only visible to other transactions once the Environment.Update call
// that produced the RwTxn returns without error.
type RwTxn interface {
	ReadTxn
	NodesWriter() common.KVWriter
	ValuesWriter() common.KVWriter
}

// Environment owns a backing KV store and serializes writers against it,
// while allowing any number of concurrent readers.
type Environment struct {
	store   backingStore
	writeMu sync.Mutex
}

// NewEnvironment wraps an arbitrary batched/traversable KV store. Use
// NewInMemoryEnvironment or NewBadgerEnvironment for the two backends the
// rest of this module ships.
func NewEnvironment(store backingStore) *Environment {
	return &Environment{store: store}
}

func NewInMemoryEnvironment() *Environment {
	return NewEnvironment(common.NewInMemoryKVStore())
}

type partitionedReadTxn struct {
	nodes  *common.TraversableReaderPartition
	values *common.TraversableReaderPartition
}

func (t *partitionedReadTxn) Nodes() common.KVTraversableReader  { return t.nodes }
func (t *partitionedReadTxn) Values() common.KVTraversableReader { return t.values }

// Read runs fn against a consistent, read-only partitioned view. Multiple
// Read calls may run concurrently with each other and with an in-flight
// Update.
func (e *Environment) Read(fn func(tx ReadTxn) error) error {
	nodes := common.MakeTraversableReaderPartition(e.store, PartitionTrieNodes)
	defer nodes.Dispose()
	values := common.MakeTraversableReaderPartition(e.store, PartitionValues)
	defer values.Dispose()

	tx := &partitionedReadTxn{nodes: nodes, values: values}
	var fnErr error
	ioErr := wrapIO(func() {
		fnErr = fn(tx)
	})
	if ioErr != nil {
		return ioErr
	}
	return fnErr
}

// overlayEntry records one pending write (or deletion) an Update has made
// to a key before the batch backing it is committed.
type overlayEntry struct {
	value   []byte
	deleted bool
}

// writeThroughPartition is both the reader and the writer a RwTxn exposes
// for one partition. It layers the batch's not-yet-committed mutations on
// top of a read-only view of the durable store, so a single Update can
// read back a node or value it wrote earlier in the same Update — the
// trie package relies on this when it descends into a subtree it just
// created. The underlying KVBatchedWriter only applies mutations to the
// store when the whole batch is committed, so without this overlay,
// reads inside an in-progress Update would never see its own writes.
type writeThroughPartition struct {
	overlay map[string]overlayEntry
	reader  common.KVTraversableReader
	writer  common.KVWriter
}

func newWriteThroughPartition(reader common.KVTraversableReader, writer common.KVWriter) *writeThroughPartition {
	return &writeThroughPartition{
		overlay: make(map[string]overlayEntry),
		reader:  reader,
		writer:  writer,
	}
}

func (p *writeThroughPartition) Get(key []byte) []byte {
	if e, ok := p.overlay[string(key)]; ok {
		if e.deleted {
			return nil
		}
		return e.value
	}
	return p.reader.Get(key)
}

func (p *writeThroughPartition) Has(key []byte) bool {
	if e, ok := p.overlay[string(key)]; ok {
		return !e.deleted
	}
	return p.reader.Has(key)
}

// Iterator is not overlay-aware: nothing in this module iterates a
// partition mid-Update, only point reads of specific node/value hashes.
func (p *writeThroughPartition) Iterator(prefix []byte) common.KVIterator {
	return p.reader.Iterator(prefix)
}

func (p *writeThroughPartition) Set(key, value []byte) {
	if e, ok := p.overlay[string(key)]; ok && !e.deleted && len(value) > 0 && bytes.Equal(e.value, value) {
		// Content-addressed keys (e.g. the shared empty subtree) are often
		// re-set with identical bytes; the batch already holds that
		// mutation, and a batch that rejects double-booking must not see it.
		return
	}
	if len(value) == 0 {
		p.overlay[string(key)] = overlayEntry{deleted: true}
	} else {
		cp := make([]byte, len(value))
		copy(cp, value)
		p.overlay[string(key)] = overlayEntry{value: cp}
	}
	p.writer.Set(key, value)
}

type partitionedRwTxn struct {
	nodes  *writeThroughPartition
	values *writeThroughPartition
}

func (t *partitionedRwTxn) Nodes() common.KVTraversableReader  { return t.nodes }
func (t *partitionedRwTxn) Values() common.KVTraversableReader { return t.values }
func (t *partitionedRwTxn) NodesWriter() common.KVWriter       { return t.nodes }
func (t *partitionedRwTxn) ValuesWriter() common.KVWriter      { return t.values }

// Update runs fn against a fresh batched writer and atomically commits
// the accumulated mutations once fn returns successfully. Only one
// Update runs at a time per Environment; callers needing throughput
// should batch many trie writes into a single Update rather than issuing
// many small ones.
func (e *Environment) Update(fn func(tx RwTxn) error) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	batch := e.store.BatchedWriter()

	nodesReader := common.MakeTraversableReaderPartition(e.store, PartitionTrieNodes)
	defer nodesReader.Dispose()
	valuesReader := common.MakeTraversableReaderPartition(e.store, PartitionValues)
	defer valuesReader.Dispose()

	nodesWriter := common.MakeWriterPartition(batch, PartitionTrieNodes)
	defer nodesWriter.Dispose()
	valuesWriter := common.MakeWriterPartition(batch, PartitionValues)
	defer valuesWriter.Dispose()

	tx := &partitionedRwTxn{
		nodes:  newWriteThroughPartition(nodesReader, nodesWriter),
		values: newWriteThroughPartition(valuesReader, valuesWriter),
	}

	var fnErr error
	ioErr := wrapIO(func() {
		fnErr = fn(tx)
	})
	if ioErr != nil {
		return ioErr
	}
	if fnErr != nil {
		return fnErr
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// Close releases the backing store, if it supports closing.
func (e *Environment) Close() error {
	if closer, ok := e.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
