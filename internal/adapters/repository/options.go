package repository

import "github.com/google/uuid"

// IDGenerator produces candidate receipt identifiers.
type IDGenerator func() (string, error)

// Option applies a configuration option to a store.
type Option func(*storeConfig)

type storeConfig struct {
	newID IDGenerator
}

func defaultConfig() storeConfig {
	return storeConfig{newID: randomID}
}

// WithIDGenerator replaces the UUIDv4 generator. Mostly useful in tests to
// force collisions.
func WithIDGenerator(gen IDGenerator) Option {
	return func(c *storeConfig) {
		if gen != nil {
			c.newID = gen
		}
	}
}

func randomID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
