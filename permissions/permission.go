// Package permissions holds the route table consulted by the auth and RBAC middleware.
// Routes are keyed by their chi pattern, e.g. /v1/bookings/{id}.
package permissions

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// Permission describes one endpoint. Skip bypasses authentication entirely; Optional
// authenticates when a token is present and otherwise lets the caller through anonymously.
// Permissions lists the roles allowed; empty means any authenticated caller.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
	Optional    bool     `json:"optional"`
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

func (r *PermissionData) FindPermissions(path, method string) Permission {
	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return rp.Path == path && strings.EqualFold(rp.Method, method)
	})

	if idx == -1 {
		return Permission{}
	}

	return r.Endpoints[idx]
}

// Parse decodes and checks a route table. Every endpoint needs a path and a known method,
// and a skipped endpoint cannot also restrict roles.
func Parse(data []byte) (*PermissionData, error) {
	var table PermissionData

	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	seen := map[string]struct{}{}

	var errs []error

	for _, endpoint := range table.Endpoints {
		key := endpoint.Method + " " + endpoint.Path

		switch {
		case !strings.HasPrefix(endpoint.Path, "/"):
			errs = append(errs, fmt.Errorf("%s: path must start with /", key))
		case !slices.Contains(methods, endpoint.Method):
			errs = append(errs, fmt.Errorf("%s: unknown method", key))
		case endpoint.Skip && len(endpoint.Permissions) > 0:
			errs = append(errs, fmt.Errorf("%s: skipped endpoint lists roles", key))
		}

		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("%s: declared twice", key))
		}

		seen[key] = struct{}{}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &table, nil
}

func Get() *PermissionData {
	table, err := Parse(permissionsData)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid embedded permissions")
	}

	log.Info().Int("endpoints", len(table.Endpoints)).Msg("Successfully loaded embedded permissions")

	return table
}
