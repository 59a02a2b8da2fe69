package debug

import (
	"os"
	"strconv"
)

// Config holds debug mode configuration
type Config struct {
	// Enabled turns on [DEBUG] log lines
	Enabled bool
}

// Active is the global debug configuration
var Active Config

// Init enables debug mode when either the config file asks for it or
// LIBADMIN_DEBUG parses as true.
func Init(fromConfig bool) {
	Active = Config{
		Enabled: fromConfig || parseBool(os.Getenv("LIBADMIN_DEBUG"), false),
	}
}

func parseBool(s string, defaultVal bool) bool {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(s)
	if err != nil {
		return defaultVal
	}
	return val
}
