package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const envPrefix = "EPINET_"

// loadDotEnv adds the variables of a .env file to the environment. Variables
// already set are kept. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

// envDefaults reads flag defaults from EPINET_ variables. The first value
// that cannot be parsed is kept in err and the flag keeps its built-in
// default.
type envDefaults struct {
	lookup func(string) (string, bool)
	err    error
}

func newEnvDefaults() *envDefaults {
	return &envDefaults{lookup: os.LookupEnv}
}

func (e *envDefaults) raw(name string) (string, bool) {
	return e.lookup(envPrefix + name)
}

func (e *envDefaults) fail(name, value string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("environment variable %s%s=%q: %w",
			envPrefix, name, value, err)
	}
}

func (e *envDefaults) Float(name string, def float64) float64 {
	s, ok := e.raw(name)
	if !ok {
		return def
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		e.fail(name, s, err)
		return def
	}

	return v
}

func (e *envDefaults) Int(name string, def int) int {
	s, ok := e.raw(name)
	if !ok {
		return def
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		e.fail(name, s, err)
		return def
	}

	return v
}

func (e *envDefaults) Uint(name string, def uint64) uint64 {
	s, ok := e.raw(name)
	if !ok {
		return def
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		e.fail(name, s, err)
		return def
	}

	return v
}

func (e *envDefaults) Bool(name string, def bool) bool {
	s, ok := e.raw(name)
	if !ok {
		return def
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		e.fail(name, s, err)
		return def
	}

	return v
}

func (e *envDefaults) String(name string, def string) string {
	s, ok := e.raw(name)
	if !ok {
		return def
	}

	return s
}
