package main

import "os"

// envPrefix namespaces the environment variables conneg reads.
const envPrefix = "CONNEG_"

// envOrDefault returns CONNEG_<name>, or defaultValue when it is unset or
// empty.
func envOrDefault(name, defaultValue string) string {
	if value, ok := os.LookupEnv(envPrefix + name); ok && value != "" {
		return value
	}
	return defaultValue
}
