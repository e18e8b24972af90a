// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcutil"
	"github.com/cashupol/pold/logger"
	"github.com/cashupol/pold/version"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	defaultConfigFilename = "pold.conf"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "pold.log"
	defaultErrLogFilename = "pold_err.log"
	defaultEpochDays      = 30
	defaultMaxHistory     = 24
	defaultBurnAmount     = 1000
)

var (
	// DefaultHomeDir is the default home directory for pold.
	DefaultHomeDir = btcutil.AppDataDir("pold", false)

	defaultConfigFile = filepath.Join(DefaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(DefaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(DefaultHomeDir, defaultLogDirname)
)

var activeConfig *Config

// Flags defines the configuration options for pold.
//
// See loadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion     bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile      string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir         string `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir          string `long:"logdir" description:"Directory to log output."`
	DebugLevel      string `long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	EpochDays       uint64 `short:"d" long:"epochdays" description:"Epoch duration in whole days"`
	MaxHistory      uint64 `short:"n" long:"maxhistory" description:"Number of trailing epochs that retain their individual proof records"`
	MintProof       string `short:"m" long:"mintproof" description:"Record the given JSON-encoded mint proof before reporting"`
	BurnSecret      string `short:"s" long:"burnsecret" description:"Record a burn of the given redemption secret before reporting"`
	BurnAmount      uint64 `long:"burnamount" description:"Amount in satoshis for --burnsecret"`
	CheckSecret     string `long:"checksecret" description:"Report whether the given proof identifier is recorded in the retained epochs"`
	CompactDatabase bool   `long:"compactdb" description:"Compact the database before exiting"`
}

// Config defines the configuration options for pold.
//
// See loadConfig for details on the configuration load process.
type Config struct {
	*Flags
	EpochDuration time.Duration
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// newConfigParser returns a new command line flags parser.
func newConfigParser(cfgFlags *Flags, options flags.Options) *flags.Parser {
	return flags.NewParser(cfgFlags, options)
}

//LoadAndSetActiveConfig loads the config that can be afterward be accesible through ActiveConfig()
func LoadAndSetActiveConfig() error {
	tcfg, err := loadConfig()
	if err != nil {
		return err
	}
	activeConfig = tcfg
	return nil
}

// ActiveConfig is a getter to the main config
func ActiveConfig() *Config {
	return activeConfig
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
// 	1) Start with a default config with sane settings
// 	2) Pre-parse the command line to check for an alternative config file
// 	3) Load configuration file overwriting defaults with any specified options
// 	4) Parse CLI options and overwrite/add any specified options
//
// The above results in pold functioning properly without any config settings
// while still allowing the user to override settings with config files and
// command line options. Command line options always take precedence.
func loadConfig() (*Config, error) {
	// Default config.
	cfgFlags := Flags{
		ConfigFile: defaultConfigFile,
		DataDir:    defaultDataDir,
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
		EpochDays:  defaultEpochDays,
		MaxHistory: defaultMaxHistory,
		BurnAmount: defaultBurnAmount,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfgFlags
	preParser := newConfigParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			return nil, err
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// Load additional config from file.
	var configFileError error
	parser := newConfigParser(&cfgFlags, flags.Default)
	cfg := &Config{
		Flags: &cfgFlags,
	}
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		if _, ok := err.(*os.PathError); !ok {
			fmt.Fprintf(os.Stderr, "Error parsing config "+
				"file: %s\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, err
		}
		configFileError = err
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, err
	}

	// Create the home directory if it doesn't already exist.
	funcName := "loadConfig"
	err = os.MkdirAll(DefaultHomeDir, 0700)
	if err != nil {
		// Show a nicer error message if it's because a symlink is
		// linked to a directory that does not exist (probably because
		// it's not mounted).
		if e, ok := err.(*os.PathError); ok && os.IsExist(err) {
			if link, lerr := os.Readlink(e.Path); lerr == nil {
				str := "is symlink %s -> %s mounted?"
				err = errors.Errorf(str, e.Path, link)
			}
		}

		str := "%s: Failed to create home directory: %s"
		err := errors.Errorf(str, funcName, err)
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}

	// Initialize log rotation. After log rotation has been initialized, the
	// logger variables may be used.
	logger.InitLog(filepath.Join(cfg.LogDir, defaultLogFilename), filepath.Join(cfg.LogDir, defaultErrLogFilename))

	// Parse, validate, and set debug log level(s).
	if err := logger.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := errors.Errorf("%s: %s", funcName, err.Error())
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}

	// Don't allow epochs without a duration.
	if cfg.EpochDays < 1 {
		str := "%s: The epochdays option may not be less than 1 -- parsed [%d]"
		err := errors.Errorf(str, funcName, cfg.EpochDays)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}

	// Don't allow a window without any Detailed epoch.
	if cfg.MaxHistory < 1 {
		str := "%s: The maxhistory option may not be less than 1 -- parsed [%d]"
		err := errors.Errorf(str, funcName, cfg.MaxHistory)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}

	if cfg.BurnSecret != "" && cfg.BurnAmount == 0 {
		str := "%s: The burnamount option may not be 0 when burnsecret is given"
		err := errors.Errorf(str, funcName)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}

	cfg.EpochDuration = time.Duration(cfg.EpochDays) * 24 * time.Hour

	// Warn about missing config file only after all other configuration is
	// done. This prevents the warning on help messages and invalid
	// options.
	if configFileError != nil {
		log.Warnf("%s", configFileError)
	}

	return cfg, nil
}
