// Package db provides the database driver factory.
package db

import (
	"github.com/pkg/errors"

	"github.com/amberhq/amber/internal/profile"
	"github.com/amberhq/amber/store"
	"github.com/amberhq/amber/store/db/postgres"
	"github.com/amberhq/amber/store/db/sqlite"
)

// NewDriver creates a new store driver based on the profile.
func NewDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		return sqlite.NewDB(profile)
	case "postgres":
		return postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unsupported driver: %s", profile.Driver)
	}
}
