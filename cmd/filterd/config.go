package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration for a filterd node: which filter
// engine it serves, how its HTTP surface listens, and how it joins a Raft
// cluster.
type Config struct {
	Engine struct {
		// Kind selects the filter implementation: "vecbf", "vecf", or "veqf".
		Kind string `yaml:"kind"`

		MaxNumKeys uint64 `yaml:"max_num_keys"`

		// VECBF-only.
		FalsePositiveRate float64 `yaml:"false_positive_rate"`
		BitsPerCounter    uint    `yaml:"bits_per_counter"`

		// VECF-only.
		TagWidth uint `yaml:"tag_width"`

		// VEQF-only.
		BitsPerItem                   uint64  `yaml:"bits_per_item"`
		InsertLargeRemainderThreshold float64 `yaml:"insert_large_remainder_threshold"`
	} `yaml:"engine"`

	Server struct {
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		Concurrency int    `yaml:"concurrency"`
		APIKey      string `yaml:"api_key"`
	} `yaml:"server"`

	Raft struct {
		NodeID        string        `yaml:"node_id"`
		TCPAddress    string        `yaml:"tcp_address"`
		Timeout       time.Duration `yaml:"timeout"`
		SnapshotDir   string        `yaml:"snapshot_dir"`
		LogDir        string        `yaml:"log_dir"`
		PeerAddresses []string      `yaml:"peer_addresses"`
	} `yaml:"raft"`
}

const (
	defaultConfigFilename = "filterd.config.yaml"
	defaultServerHost     = "0.0.0.0"
	defaultServerPort     = 8080
	defaultAPIKey         = "xyz"
	defaultSnapshotDir    = "/filterd/raft/snapshots"
	defaultLogDir         = "/filterd/raft/logs"

	defaultEngineKind              = "veqf"
	defaultMaxNumKeys              = uint64(1) << 20
	defaultFalsePositiveRate       = 0.01
	defaultBitsPerCounter          = 8
	defaultTagWidth                = 12
	defaultBitsPerItem             = 8
	defaultRemainderThreshold      = 0.2
)

func createDefaultConfig() *Config {
	c := &Config{}
	c.Engine.Kind = defaultEngineKind
	c.Engine.MaxNumKeys = defaultMaxNumKeys
	c.Engine.FalsePositiveRate = defaultFalsePositiveRate
	c.Engine.BitsPerCounter = defaultBitsPerCounter
	c.Engine.TagWidth = defaultTagWidth
	c.Engine.BitsPerItem = defaultBitsPerItem
	c.Engine.InsertLargeRemainderThreshold = defaultRemainderThreshold

	c.Server.Host = defaultServerHost
	c.Server.Port = defaultServerPort
	c.Server.Concurrency = runtime.NumCPU()
	c.Server.APIKey = defaultAPIKey

	c.Raft.NodeID = uuid.NewString()
	c.Raft.TCPAddress = fmt.Sprintf("0.0.0.0:%d", defaultServerPort)
	c.Raft.Timeout = 10 * time.Second
	c.Raft.SnapshotDir = defaultSnapshotDir
	c.Raft.LogDir = defaultLogDir

	return c
}

func mergeConfigs(defaultConfig, userConfig Config) Config {
	merged := defaultConfig

	if userConfig.Engine.Kind != "" {
		merged.Engine.Kind = userConfig.Engine.Kind
	}
	if userConfig.Engine.MaxNumKeys > 0 {
		merged.Engine.MaxNumKeys = userConfig.Engine.MaxNumKeys
	}
	if userConfig.Engine.FalsePositiveRate > 0 {
		merged.Engine.FalsePositiveRate = userConfig.Engine.FalsePositiveRate
	}
	if userConfig.Engine.BitsPerCounter > 0 {
		merged.Engine.BitsPerCounter = userConfig.Engine.BitsPerCounter
	}
	if userConfig.Engine.TagWidth > 0 {
		merged.Engine.TagWidth = userConfig.Engine.TagWidth
	}
	if userConfig.Engine.BitsPerItem > 0 {
		merged.Engine.BitsPerItem = userConfig.Engine.BitsPerItem
	}
	if userConfig.Engine.InsertLargeRemainderThreshold > 0 {
		merged.Engine.InsertLargeRemainderThreshold = userConfig.Engine.InsertLargeRemainderThreshold
	}

	if userConfig.Server.Host != "" {
		merged.Server.Host = userConfig.Server.Host
	}
	if userConfig.Server.Port != 0 {
		merged.Server.Port = userConfig.Server.Port
	}
	if userConfig.Server.Concurrency != 0 {
		merged.Server.Concurrency = userConfig.Server.Concurrency
	}
	if userConfig.Server.APIKey != "" {
		merged.Server.APIKey = userConfig.Server.APIKey
	}

	if userConfig.Raft.NodeID != "" {
		merged.Raft.NodeID = userConfig.Raft.NodeID
	}
	if userConfig.Raft.TCPAddress != "" {
		merged.Raft.TCPAddress = userConfig.Raft.TCPAddress
	}
	if userConfig.Raft.Timeout != 0 {
		merged.Raft.Timeout = userConfig.Raft.Timeout
	}
	if userConfig.Raft.SnapshotDir != "" {
		merged.Raft.SnapshotDir = userConfig.Raft.SnapshotDir
	}
	if userConfig.Raft.LogDir != "" {
		merged.Raft.LogDir = userConfig.Raft.LogDir
	}
	if len(userConfig.Raft.PeerAddresses) > 0 {
		merged.Raft.PeerAddresses = userConfig.Raft.PeerAddresses
	}

	return merged
}

// ParseConfigFile loads filename (defaulting to defaultConfigFilename),
// merging it over createDefaultConfig. A missing file is not an error: the
// defaults are returned as-is.
func ParseConfigFile(filename string) (*Config, error) {
	if filename == "" {
		filename = defaultConfigFilename
	}

	defaultConfig := createDefaultConfig()

	file, err := os.Open(filename)
	if os.IsNotExist(err) {
		return defaultConfig, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filterd: could not open config file: %w", err)
	}
	defer file.Close()

	userConfig := &Config{}
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(userConfig); err != nil {
		return nil, fmt.Errorf("filterd: could not decode config file: %w", err)
	}

	finalConfig := mergeConfigs(*defaultConfig, *userConfig)
	return &finalConfig, nil
}
