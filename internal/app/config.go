package app

import (
	"os"
	"strconv"
	"time"
)

// getenv returns the value of key, or fallback when it is unset or empty.
func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func getenvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return fallback
	}

	return n
}

func getenvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getenv(key, ""))
	if err != nil {
		return fallback
	}

	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getenv(key, ""))
	if err != nil {
		return fallback
	}

	return d
}
