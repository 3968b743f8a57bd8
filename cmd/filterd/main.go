// Command filterd runs a single node of a Raft-replicated approximate
// set-membership filter service. The engine it serves (VECBF, VECF, or
// VEQF) is chosen at startup by config, and every mutation is committed
// through Raft before it is visible on any replica.
package main

import (
	"flag"
	"log"
)

var (
	configuration *Config
	engine        Engine
)

func init() {
	configFile := flag.String("config", "", "path to filterd.config.yaml")
	flag.Parse()

	cfg, err := ParseConfigFile(*configFile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	configuration = cfg

	log.Printf("Loaded configuration:")
	log.Printf("Engine: %s", cfg.Engine.Kind)
	log.Printf("Server Host: %s", cfg.Server.Host)
	log.Printf("Server Port: %d", cfg.Server.Port)
	log.Printf("Raft Node ID: %s", cfg.Raft.NodeID)
	log.Printf("Raft TCP Address: %s", cfg.Raft.TCPAddress)
	log.Printf("Raft Log Directory: %s", cfg.Raft.LogDir)
	log.Printf("Raft Snapshot Directory: %s", cfg.Raft.SnapshotDir)
	log.Println()

	e, err := NewEngine(cfg)
	if err != nil {
		log.Fatalf("failed to construct engine: %v", err)
	}
	engine = e
}

func main() {
	log.Printf("Creating Raft node with log directory: %s", configuration.Raft.LogDir)
	log.Printf("Creating Raft node with snapshot directory: %s", configuration.Raft.SnapshotDir)

	node, err := NewRaftNode(configuration, engine)
	if err != nil {
		log.Fatalf("Failed to create Raft node: %v", err)
	}

	log.Printf("Bootstrapping cluster with peers %v", configuration.Raft.PeerAddresses)
	if err := node.BootstrapCluster(configuration.Raft.PeerAddresses); err != nil {
		log.Printf("Failed to bootstrap cluster: %v", err)
	}

	if err := node.Start(); err != nil {
		log.Fatalf("Failed to start Raft node: %v", err)
	}
	log.Println("Raft node started successfully")

	StartServer(configuration, node)
}
