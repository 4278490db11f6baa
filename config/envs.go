package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the game server's configuration values.
type Config struct {
	HostIP             string // Host IP for the server
	RESTPort           int    // Port for the REST API
	GinMode            string // Mode for the Gin framework (e.g., release, debug, test)
	LogLevel           string // logrus level name
	MazePath           string // Image the maze is loaded from
	FriendlyMode       bool   // Send undisguised views and the start position on register
	IdleTimeoutSeconds int    // Seconds without contact before a session ends
	MaxRedirects       int    // Cap on trap-triggered re-entrance into a move
	DisguiseRadius     int    // Traps up to this distance show as unknown traps
	RedisAddr          string // Optional; enables the redis contact store and locks
	MongoURI           string // Optional; enables the mongo result repository
	DBName             string // Mongo database name
}

// AgentConfig holds the agent's environment settings. Connection details come
// from the command line.
type AgentConfig struct {
	MapSize   int    // Side of the blank map used when the server is not friendly
	Lookahead int    // Cells a reachability check may expand
	LogLevel  string // logrus level name
}

var loadDotEnv = sync.OnceFunc(func() {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Debugf(".env file not found or could not be loaded: %v", err)
	}
})

// Server loads the server configuration. It exits when a required variable is
// missing or malformed.
func Server() Config {
	loadDotEnv()
	return Config{
		HostIP:             getEnvWithDefault("HOST_IP", ""),
		RESTPort:           getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:            getEnvWithDefault("GIN_MODE", "release"),
		LogLevel:           getEnvWithDefault("LOG_LEVEL", "info"),
		MazePath:           mustGetEnv("MAZE_PATH"),
		FriendlyMode:       getEnvAsBoolWithDefault("FRIENDLY_MODE", false),
		IdleTimeoutSeconds: getEnvAsIntWithDefault("IDLE_TIMEOUT_SECONDS", 300),
		MaxRedirects:       getEnvAsIntWithDefault("MAX_REDIRECTS", 4),
		DisguiseRadius:     getEnvAsIntWithDefault("DISGUISE_RADIUS", 2),
		RedisAddr:          getEnvWithDefault("REDIS_ADDR", ""),
		MongoURI:           getEnvWithDefault("MONGO_URI", ""),
		DBName:             getEnvWithDefault("DB_NAME", "trapmaze"),
	}
}

// Agent loads the agent configuration.
func Agent() AgentConfig {
	loadDotEnv()
	return AgentConfig{
		MapSize:   getEnvAsIntWithDefault("AGENT_MAP_SIZE", 512),
		Lookahead: getEnvAsIntWithDefault("AGENT_LOOKAHEAD", 4096),
		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("Environment variable %s is not set", key)
	}
	return value
}

// getEnvAsIntWithDefault retrieves an integer environment variable, exiting when it is set but not a number.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvAsBoolWithDefault accepts the forms understood by strconv.ParseBool.
func getEnvAsBoolWithDefault(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Fatalf("Environment variable %s must be a boolean: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set or empty.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
