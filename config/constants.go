package config

import "github.com/brettbedarf/memfs/internal/util"

// CLI verbosity values accepted by [ConfigOverride.LogLvl]
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl = util.InfoLevel

	// DefaultBackend keeps the tree in process memory only
	DefaultBackend = "memory"

	DefaultStorePath = "memfs.db"

	// DefaultStoreKey is the key the serialized tree is written under
	DefaultStoreKey = "saveArray"

	// DefaultHistoryLimit caps the navigation log; 0 disables the cap
	DefaultHistoryLimit = 100
)
