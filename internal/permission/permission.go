// Package permission grants the public (unauthenticated) role read access
// to content collections.
package permission

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrRoleNotFound is returned by a Store that has no public role.
var ErrRoleNotFound = errors.New("public role not found")

// PublicCollections are the collections readable without authentication.
var PublicCollections = []string{"institution", "program", "program-section", "about-institute"}

// ReadActions are the read actions granted on each public collection.
var ReadActions = []string{"find", "findOne"}

// Permission is one row of the permission store.
type Permission struct {
	ID      int
	Action  string
	RoleID  int
	Enabled bool
}

// Store is the external permission storage.
type Store interface {
	PublicRoleID(ctx context.Context) (int, error)
	// Permissions returns the role's rows for the given actions keyed by action.
	Permissions(ctx context.Context, roleID int, actions []string) (map[string]Permission, error)
	Create(ctx context.Context, action string, roleID int) error
	Enable(ctx context.Context, id int) error
}

// Summary counts what a reconciliation run changed.
type Summary struct {
	Created   int
	Enabled   int
	Unchanged int
}

// ActionName is the permission action for a collection's content-type
// action, e.g. "api::institution.institution.find".
func ActionName(collection, action string) string {
	return fmt.Sprintf("api::%s.%s.%s", collection, collection, action)
}

// EnsurePublicRead makes every collection/action pair readable by the
// public role. Missing rows are created enabled and disabled rows are
// enabled; enabled rows are never touched, so re-running is a no-op.
// Collections are processed in order and the first store error aborts.
func EnsurePublicRead(ctx context.Context, store Store, logger *zap.Logger, collections, actions []string) (Summary, error) {
	var sum Summary

	roleID, err := store.PublicRoleID(ctx)
	if errors.Is(err, ErrRoleNotFound) {
		logger.Warn("public role not found, skipping public permission setup")
		return sum, nil
	}
	if err != nil {
		return sum, fmt.Errorf("look up public role: %w", err)
	}

	for _, collection := range collections {
		names := make([]string, 0, len(actions))
		for _, a := range actions {
			names = append(names, ActionName(collection, a))
		}

		existing, err := store.Permissions(ctx, roleID, names)
		if err != nil {
			return sum, fmt.Errorf("list permissions for %s: %w", collection, err)
		}

		for _, name := range names {
			p, ok := existing[name]
			switch {
			case !ok:
				if err := store.Create(ctx, name, roleID); err != nil {
					return sum, fmt.Errorf("create permission %s: %w", name, err)
				}
				sum.Created++
				logger.Info("granted public permission", zap.String("action", name))
			case !p.Enabled:
				if err := store.Enable(ctx, p.ID); err != nil {
					return sum, fmt.Errorf("enable permission %s: %w", name, err)
				}
				sum.Enabled++
				logger.Info("enabled public permission", zap.String("action", name))
			default:
				sum.Unchanged++
			}
		}
	}
	return sum, nil
}
