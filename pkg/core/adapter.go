package core

import "time"

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type           string
	Host           string
	Port           int
	Database       string
	Username       string
	Password       string
	ConnectTimeout time.Duration
	Options        map[string]string
}
