// Package supabase implements the persistence ports on top of the managed
// Postgres exposed through PostgREST.
package supabase

import (
	supa "github.com/supabase-community/supabase-go"

	"polymath-backend/infrastructure/config"
	"polymath-backend/pkg/errors"
)

// NewClient connects with the service-role key, which bypasses row-level
// security; per-user scoping happens in the adapter queries.
func NewClient(cfg config.SupabaseConfig) (*supa.Client, error) {
	client, err := supa.NewClient(cfg.URL, cfg.ServiceKey, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create supabase client")
	}
	return client, nil
}
