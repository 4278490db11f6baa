package config

// Component names used to tag log entries.
const (
	LogApp            = "APP"
	LogSessionManager = "SESSION-MANAGER"
	LogEvents         = "EVENTS"
	LogAgent          = "AGENT"
)
