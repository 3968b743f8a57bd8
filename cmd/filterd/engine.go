package main

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/vecfilter/vecfilter/vecbf"
	"github.com/vecfilter/vecfilter/vecf"
	"github.com/vecfilter/vecfilter/veqf"
)

// Engine is the uniform surface filterd drives its three filter
// implementations through, letting server.go and the Raft FSM stay
// oblivious to which one a given node is configured to run.
type Engine interface {
	Insert(item []byte) bool
	Lookup(item []byte) bool
	Delete(item []byte) bool
	Size() uint64
	SizeInBytes() int
	BitsPerItem() float64

	// snapshot/restore serialize the engine's full state for Raft.
	snapshot() ([]byte, error)
	restore(data []byte) error
}

// NewEngine constructs the Engine named by cfg.Engine.Kind.
func NewEngine(cfg *Config) (Engine, error) {
	switch cfg.Engine.Kind {
	case "vecbf":
		f, err := vecbf.NewWithCounterWidth(cfg.Engine.MaxNumKeys, cfg.Engine.FalsePositiveRate, cfg.Engine.BitsPerCounter)
		if err != nil {
			return nil, fmt.Errorf("filterd: vecbf: %w", err)
		}
		return &vecbfEngine{f: f}, nil
	case "vecf":
		f, err := vecf.New(cfg.Engine.MaxNumKeys, vecf.TagWidth(cfg.Engine.TagWidth))
		if err != nil {
			return nil, fmt.Errorf("filterd: vecf: %w", err)
		}
		return &vecfEngine{f: f}, nil
	case "veqf":
		f, err := veqf.New(cfg.Engine.MaxNumKeys, cfg.Engine.BitsPerItem)
		if err != nil {
			return nil, fmt.Errorf("filterd: veqf: %w", err)
		}
		f.SetInsertLargeRemainderThreshold(cfg.Engine.InsertLargeRemainderThreshold)
		return &veqfEngine{f: f}, nil
	default:
		return nil, fmt.Errorf("filterd: unknown engine kind %q", cfg.Engine.Kind)
	}
}

func gobEncodeGzip(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if err := gob.NewEncoder(gzipWriter).Encode(v); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobDecodeGzip(data []byte, v interface{}) error {
	gzipReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer gzipReader.Close()
	return gob.NewDecoder(gzipReader).Decode(v)
}

type vecbfEngine struct {
	mu sync.Mutex
	f  *vecbf.Filter
}

func (e *vecbfEngine) Insert(item []byte) bool { e.mu.Lock(); defer e.mu.Unlock(); return e.f.Insert(item) }
func (e *vecbfEngine) Lookup(item []byte) bool { e.mu.Lock(); defer e.mu.Unlock(); return e.f.Lookup(item) }
func (e *vecbfEngine) Delete(item []byte) bool { e.mu.Lock(); defer e.mu.Unlock(); return e.f.Delete(item) }
func (e *vecbfEngine) Size() uint64            { e.mu.Lock(); defer e.mu.Unlock(); return uint64(e.f.Size()) }
func (e *vecbfEngine) SizeInBytes() int        { e.mu.Lock(); defer e.mu.Unlock(); return e.f.SizeInBytes() }
func (e *vecbfEngine) BitsPerItem() float64    { e.mu.Lock(); defer e.mu.Unlock(); return e.f.BitsPerItem() }

func (e *vecbfEngine) snapshot() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gobEncodeGzip(e.f.ExportSnapshot())
}

func (e *vecbfEngine) restore(data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var snap vecbf.Snapshot
	if err := gobDecodeGzip(data, &snap); err != nil {
		return err
	}
	e.f.RestoreSnapshot(snap)
	return nil
}

type vecfEngine struct {
	mu sync.Mutex
	f  *vecf.Filter
}

func (e *vecfEngine) Insert(item []byte) bool { e.mu.Lock(); defer e.mu.Unlock(); return e.f.Insert(item) }
func (e *vecfEngine) Lookup(item []byte) bool { e.mu.Lock(); defer e.mu.Unlock(); return e.f.Lookup(item) }
func (e *vecfEngine) Delete(item []byte) bool { e.mu.Lock(); defer e.mu.Unlock(); return e.f.Delete(item) }
func (e *vecfEngine) Size() uint64            { e.mu.Lock(); defer e.mu.Unlock(); return e.f.Size() }
func (e *vecfEngine) SizeInBytes() int        { e.mu.Lock(); defer e.mu.Unlock(); return e.f.SizeInBytes() }
func (e *vecfEngine) BitsPerItem() float64    { e.mu.Lock(); defer e.mu.Unlock(); return e.f.BitsPerItem() }

func (e *vecfEngine) snapshot() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gobEncodeGzip(e.f.ExportSnapshot())
}

func (e *vecfEngine) restore(data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var snap vecf.Snapshot
	if err := gobDecodeGzip(data, &snap); err != nil {
		return err
	}
	e.f.RestoreSnapshot(snap)
	return nil
}

type veqfEngine struct {
	mu sync.Mutex
	f  *veqf.Filter
}

func (e *veqfEngine) Insert(item []byte) bool { e.mu.Lock(); defer e.mu.Unlock(); return e.f.Insert(item) }
func (e *veqfEngine) Lookup(item []byte) bool { e.mu.Lock(); defer e.mu.Unlock(); return e.f.Lookup(item) }
func (e *veqfEngine) Delete(item []byte) bool { e.mu.Lock(); defer e.mu.Unlock(); return e.f.Delete(item) }
func (e *veqfEngine) Size() uint64            { e.mu.Lock(); defer e.mu.Unlock(); return e.f.Size() }
func (e *veqfEngine) SizeInBytes() int        { e.mu.Lock(); defer e.mu.Unlock(); return e.f.SizeInBytes() }
func (e *veqfEngine) BitsPerItem() float64    { e.mu.Lock(); defer e.mu.Unlock(); return e.f.BitsPerItem() }

func (e *veqfEngine) snapshot() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gobEncodeGzip(e.f.ExportSnapshot())
}

func (e *veqfEngine) restore(data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var snap veqf.Snapshot
	if err := gobDecodeGzip(data, &snap); err != nil {
		return err
	}
	e.f.RestoreSnapshot(snap)
	return nil
}
