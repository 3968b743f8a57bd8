package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"

	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
)

// RaftNode wraps a Raft consensus group replicating mutations to a single
// Engine: every Insert/Delete is committed to the Raft log before it is
// applied, so all replicas converge on the same filter state.
type RaftNode struct {
	raft        *raft.Raft
	config      *Config
	engine      Engine
	fsm         *engineFSM
	transport   *raft.NetworkTransport
	logStore    *raftboltdb.BoltStore
	stableStore *raftboltdb.BoltStore
	snapshots   *raft.FileSnapshotStore
}

// RaftCommand is the wire format for entries appended to the Raft log.
type RaftCommand struct {
	Operation string `json:"operation"`
	Key       string `json:"key"`
}

type engineFSM struct {
	engine Engine
}

func (f *engineFSM) Apply(l *raft.Log) interface{} {
	var cmd RaftCommand
	if err := json.Unmarshal(l.Data, &cmd); err != nil {
		return fmt.Errorf("failed to unmarshal command: %w", err)
	}

	switch cmd.Operation {
	case "insert":
		f.engine.Insert([]byte(cmd.Key))
		return nil
	case "delete":
		f.engine.Delete([]byte(cmd.Key))
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd.Operation)
	}
}

func (f *engineFSM) Snapshot() (raft.FSMSnapshot, error) {
	data, err := f.engine.snapshot()
	if err != nil {
		return nil, err
	}
	return &engineFSMSnapshot{data: data}, nil
}

func (f *engineFSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return f.engine.restore(data)
}

type engineFSMSnapshot struct {
	data []byte
}

func (s *engineFSMSnapshot) Persist(sink raft.SnapshotSink) error {
	if _, err := sink.Write(s.data); err != nil {
		sink.Cancel()
		return err
	}
	return sink.Close()
}

func (s *engineFSMSnapshot) Release() {}

// NewRaftNode wires a Raft group around engine using cfg.Raft. It creates
// cfg.Raft.LogDir/SnapshotDir if they do not already exist.
func NewRaftNode(cfg *Config, engine Engine) (*RaftNode, error) {
	fsm := &engineFSM{engine: engine}

	if err := os.MkdirAll(cfg.Raft.LogDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := os.MkdirAll(cfg.Raft.SnapshotDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	logStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.Raft.LogDir, "raft-log.bolt"))
	if err != nil {
		return nil, fmt.Errorf("failed to create log store: %w", err)
	}

	stableStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.Raft.LogDir, "raft-stable.bolt"))
	if err != nil {
		return nil, fmt.Errorf("failed to create stable store: %w", err)
	}

	snapshots, err := raft.NewFileSnapshotStore(cfg.Raft.SnapshotDir, 3, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot store: %w", err)
	}

	addr, err := net.ResolveTCPAddr("tcp", cfg.Raft.TCPAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve TCP address: %w", err)
	}

	transport, err := raft.NewTCPTransport(cfg.Raft.TCPAddress, addr, 3, cfg.Raft.Timeout, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create TCP transport: %w", err)
	}

	raftConfig := raft.DefaultConfig()
	raftConfig.LocalID = raft.ServerID(cfg.Raft.NodeID)
	raftConfig.HeartbeatTimeout = cfg.Raft.Timeout
	raftConfig.ElectionTimeout = cfg.Raft.Timeout * 2
	raftConfig.CommitTimeout = cfg.Raft.Timeout / 2
	raftConfig.MaxAppendEntries = 64
	raftConfig.ShutdownOnRemove = false

	r, err := raft.NewRaft(raftConfig, fsm, logStore, stableStore, snapshots, transport)
	if err != nil {
		return nil, fmt.Errorf("failed to create new Raft: %w", err)
	}

	return &RaftNode{
		raft:        r,
		config:      cfg,
		engine:      engine,
		fsm:         fsm,
		transport:   transport,
		logStore:    logStore,
		stableStore: stableStore,
		snapshots:   snapshots,
	}, nil
}

// BootstrapCluster bootstraps a cluster consisting of this node plus any
// peerAddresses given, each addressed by its own TCP
// address (used as its Raft ServerID too, for simplicity).
func (rn *RaftNode) BootstrapCluster(peerAddresses []string) error {
	servers := []raft.Server{
		{ID: raft.ServerID(rn.config.Raft.NodeID), Address: rn.transport.LocalAddr()},
	}
	for _, addr := range peerAddresses {
		servers = append(servers, raft.Server{ID: raft.ServerID(addr), Address: raft.ServerAddress(addr)})
	}
	return rn.raft.BootstrapCluster(raft.Configuration{Servers: servers}).Error()
}

// Start is a no-op placeholder kept for symmetry with Stop; raft.NewRaft
// already starts the node's internal goroutines.
func (rn *RaftNode) Start() error { return nil }

func (rn *RaftNode) Stop() error {
	return rn.raft.Shutdown().Error()
}

func (rn *RaftNode) Insert(key string) error {
	return rn.applyCommand(RaftCommand{Operation: "insert", Key: key})
}

func (rn *RaftNode) Delete(key string) error {
	return rn.applyCommand(RaftCommand{Operation: "delete", Key: key})
}

func (rn *RaftNode) applyCommand(cmd RaftCommand) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	future := rn.raft.Apply(data, rn.config.Raft.Timeout)
	if err := future.Error(); err != nil {
		return err
	}
	if err, ok := future.Response().(error); ok && err != nil {
		return err
	}
	return nil
}

func (rn *RaftNode) AddPeer(nodeID, addr string) error {
	log.Printf("Adding peer: %s at %s", nodeID, addr)
	return rn.raft.AddVoter(raft.ServerID(nodeID), raft.ServerAddress(addr), 0, 0).Error()
}

func (rn *RaftNode) RemovePeer(nodeID string) error {
	log.Printf("Removing peer: %s", nodeID)
	return rn.raft.RemoveServer(raft.ServerID(nodeID), 0, 0).Error()
}

func (rn *RaftNode) IsLeader() bool {
	return rn.raft.State() == raft.Leader
}

func (rn *RaftNode) LeaderAddress() string {
	return string(rn.raft.Leader())
}
