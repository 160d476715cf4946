// Package config abstracts configuration lookup behind a typed interface.
package config

import (
	"io"
	"time"
)

// Config retrieves configuration values of various types.
//
// Implementations handle missing keys and conversion failures by returning
// the type's zero value; callers that need stricter behavior validate at
// startup.
type Config interface {
	io.Closer

	// GetBool retrieves the value for key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value for key as a string.
	GetString(key string) string

	// GetInt retrieves the value for key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the value for key as an int32.
	GetInt32(key string) int32

	// GetInt64 retrieves the value for key as an int64.
	GetInt64(key string) int64

	// GetFloat64 retrieves the value for key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value for key interpreted as seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value for key interpreted as minutes.
	GetMinute(key string) time.Duration

	// GetArray retrieves the value for key split on commas.
	GetArray(key string) []string
}
