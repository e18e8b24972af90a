package logger

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// BackendLog is the logging backend used to create all subsystem loggers.
var BackendLog = NewBackend()

var (
	// subsystemLoggers maps each subsystem identifier to its associated logger.
	subsystemLoggers = make(map[string]*Logger)
	loggersMutex     sync.Mutex
)

// RegisterSubSystem registers a new subsystem logger, and returns the
// existing one if the subsystem is already registered. Should be called from
// a global variable initialization.
func RegisterSubSystem(subsystem string) *Logger {
	loggersMutex.Lock()
	defer loggersMutex.Unlock()
	log, ok := subsystemLoggers[subsystem]
	if !ok {
		log = BackendLog.Logger(subsystem)
		subsystemLoggers[subsystem] = log
	}
	return log
}

// InitLog attaches log file and error log file to the backend log and starts
// the backend.
func InitLog(logFile, errLogFile string) {
	err := BackendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s\n", logFile, LevelTrace, err)
		os.Exit(1)
	}
	err = BackendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s\n", errLogFile, LevelWarn, err)
		os.Exit(1)
	}
	err = BackendLog.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting the logger: %s\n", err)
		os.Exit(1)
	}
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	loggersMutex.Lock()
	defer loggersMutex.Unlock()
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	_, ok := LevelFromString(logLevel)
	return ok
}

// SetLogLevel sets the logging level for provided subsystem. Invalid
// subsystems are ignored. Uninitialized subsystems are dynamically created as
// needed.
func SetLogLevel(subsystemID string, logLevel string) {
	loggersMutex.Lock()
	defer loggersMutex.Unlock()
	// Ignore invalid subsystems.
	log, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := LevelFromString(logLevel)
	log.SetLevel(level)
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level. It also dynamically creates the subsystem loggers as needed, so it
// can be used to initialize the logging system.
func SetLogLevels(logLevel string) {
	loggersMutex.Lock()
	defer loggersMutex.Unlock()
	// Configure all sub-systems with the new logging level. Dynamically
	// create loggers as needed.
	level, _ := LevelFromString(logLevel)
	for _, log := range subsystemLoggers {
		log.SetLevel(level)
	}
}

// ParseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly. An appropriate error is returned if anything is
// invalid.
func ParseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if !validLogLevel(debugLevel) {
			return errors.Errorf("The specified debug level [%s] is invalid", debugLevel)
		}

		// Change the logging level for all subsystems.
		SetLogLevels(debugLevel)

		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			return errors.Errorf("The specified debug level contains an "+
				"invalid subsystem/level pair [%s]", logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		if _, exists := subsystemLoggers[subsysID]; !exists {
			return errors.Errorf("The specified subsystem [%s] is invalid. "+
				"Supported subsystems %s", subsysID, SupportedSubsystems())
		}

		// Validate log level.
		if !validLogLevel(logLevel) {
			return errors.Errorf("The specified debug level [%s] is invalid", logLevel)
		}

		SetLogLevel(subsysID, logLevel)
	}

	return nil
}
