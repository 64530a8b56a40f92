// Package config loads typed configuration structs from the process
// environment. Structs are annotated with `env` tags (caarlos0/env) and an
// optional .env file is read once via godotenv. Each struct type is parsed
// a single time per process and served from a cache afterwards, so every
// component can load its own config section without coordinating startup
// order.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig wraps failures to parse environment variables into
	// the target struct, including missing required values.
	ErrParsingConfig = errors.New("config: failed to parse environment")

	// ErrNilPointer is returned when Load receives a nil target.
	ErrNilPointer = errors.New("config: nil pointer")

	// ErrLoadingEnvFiles wraps failures to read explicit .env files.
	ErrLoadingEnvFiles = errors.New("config: failed to load env files")
)

type registry struct {
	mu      sync.Mutex
	parsed  map[string]any
	dotenv  sync.Once
	noFiles bool
}

var global = &registry{parsed: make(map[string]any)}

// LoadEnv reads the given .env files into the process environment before
// any struct parsing happens. Without arguments it loads the default .env
// from the working directory. Existing environment variables win over file
// values, matching godotenv semantics.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFiles, err)
	}
	global.mu.Lock()
	global.noFiles = true // explicit load replaces the implicit default
	global.mu.Unlock()
	return nil
}

// Load populates v from the environment, parsing each struct type at most
// once per process. Later calls for the same type return the cached copy,
// so config sections behave as process-wide singletons.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	global.dotenv.Do(func() {
		global.mu.Lock()
		skip := global.noFiles
		global.mu.Unlock()
		if !skip {
			// The default .env is optional.
			_ = godotenv.Load()
		}
	})

	key := typeKey[T]()

	global.mu.Lock()
	defer global.mu.Unlock()

	if cached, ok := global.parsed[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	global.parsed[key] = *v
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Reset clears the parsed-struct cache. Intended for tests that mutate the
// environment between loads.
func Reset() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.parsed = make(map[string]any)
}

func typeKey[T any]() string {
	t := reflect.TypeFor[T]()
	return t.PkgPath() + "." + t.String()
}
