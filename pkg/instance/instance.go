package instance

import "os"

// GetID returns the process instance identifier or a local default.
func GetID() string {
	if id := os.Getenv("VELVETLOOM_INSTANCE_ID"); id != "" {
		return id
	}
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	return "local"
}
