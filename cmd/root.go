package main

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brettbedarf/memfs/backends"
	"github.com/brettbedarf/memfs/config"
	"github.com/brettbedarf/memfs/filesystem"
	"github.com/brettbedarf/memfs/internal/util"
	"github.com/brettbedarf/memfs/session"
)

// Config keys shared by flags, MEMFS_* env vars and config files
const (
	keyBackend      = "backend"
	keyStorePath    = "store_path"
	keyStoreKey     = "store_key"
	keyHistoryLimit = "history_limit"
	keyVerbose      = "verbose"
)

// app holds the state shared by all subcommands of one invocation
type app struct {
	v       *viper.Viper
	cfgPath string
	sess    *session.Session
}

// run executes the CLI with args and releases the session afterwards
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	a := &app{v: viper.New()}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if a.sess != nil {
		if closeErr := a.sess.Close(); closeErr != nil {
			util.GetLogger("main").Error().Err(closeErr).Msg("Failed to close session")
			if err == nil {
				err = closeErr
			}
		}
	}
	return err
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "memfs",
		Short:             "Browse and edit a persisted folder/file tree",
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "Path to a YAML or JSON config file")
	flags.String("backend", config.DefaultBackend, "Persistence backend: memory, bolt or sqlite")
	flags.String("store", config.DefaultStorePath, "File path used by the on-disk backends")
	flags.String("key", config.DefaultStoreKey, "Key the tree is stored under")
	flags.Int("history-limit", config.DefaultHistoryLimit, "Max navigation entries kept (0 = unbounded)")
	flags.IntP("verbose", "v", config.InfoVerbose, "Log verbosity between 1 (error) and 5 (trace)")

	// flag errors are impossible here: every looked up flag is defined above
	_ = a.v.BindPFlag(keyBackend, flags.Lookup("backend"))
	_ = a.v.BindPFlag(keyStorePath, flags.Lookup("store"))
	_ = a.v.BindPFlag(keyStoreKey, flags.Lookup("key"))
	_ = a.v.BindPFlag(keyHistoryLimit, flags.Lookup("history-limit"))
	_ = a.v.BindPFlag(keyVerbose, flags.Lookup("verbose"))
	a.v.SetEnvPrefix("MEMFS")
	a.v.AutomaticEnv()

	root.AddCommand(
		a.newLsCmd(),
		a.newTreeCmd(),
		a.newMkdirCmd(),
		a.newTouchCmd(),
		a.newRenameCmd(),
		a.newRmCmd(),
		a.newCatCmd(),
		a.newWriteCmd(),
		a.newApplyCmd(),
		a.newShellCmd(),
	)
	return root
}

// loadConfig layers the config file, MEMFS_* env vars and flags over the
// defaults, in that order
func (a *app) loadConfig() (*config.Config, error) {
	override := &config.ConfigOverride{}
	if a.cfgPath != "" {
		var err error
		if override, err = config.LoadConfigOverrideFile(a.cfgPath); err != nil {
			return nil, err
		}
	}

	if a.v.IsSet(keyBackend) {
		override.Backend = util.Pointer(a.v.GetString(keyBackend))
	}
	if a.v.IsSet(keyStorePath) {
		override.StorePath = util.Pointer(a.v.GetString(keyStorePath))
	}
	if a.v.IsSet(keyStoreKey) {
		override.StoreKey = util.Pointer(a.v.GetString(keyStoreKey))
	}
	if a.v.IsSet(keyHistoryLimit) {
		override.HistoryLimit = util.Pointer(a.v.GetInt(keyHistoryLimit))
	}
	if a.v.IsSet(keyVerbose) {
		override.LogLvl = util.Pointer(a.v.GetInt(keyVerbose))
	}
	return config.NewConfig(override), nil
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	util.InitializeLoggerTo(cfg.LogLvl, cmd.ErrOrStderr())
	logger := util.GetLogger("main")
	logger.Debug().
		Str("backend", cfg.Backend).
		Str("store", cfg.StorePath).
		Str("key", cfg.StoreKey).
		Msg("Opening session")

	backends.RegisterBuiltins()
	a.sess, err = session.New(cmd.Context(), cfg)
	return err
}

// lookup resolves an absolute path like "root/a/b" or a numeric id
func (a *app) lookup(arg string) (filesystem.Item, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		if it := a.sess.GetItemByID(id); it != nil {
			return it, nil
		}
	} else if it := a.sess.GetItemByPath(arg); it != nil {
		return it, nil
	}
	return nil, notFound(arg)
}
