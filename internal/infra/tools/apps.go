package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"appcatmcp/internal/domain"
)

// CatalogSource is the cached view of the remote catalog the trust filter
// queries. catalog.Cache implements it.
type CatalogSource interface {
	Get(ctx context.Context) ([]domain.CatalogEntry, error)
}

// AppsWithTrustFilterTool lists app ids whose catalog entry carries the given
// trust factor. The catalog is fetched on first use and reused afterwards.
func AppsWithTrustFilterTool(source CatalogSource) Descriptor {
	keys := make([]any, 0, len(domain.TrustFactors()))
	for _, f := range domain.TrustFactors() {
		keys = append(keys, string(f))
	}
	return Descriptor{
		Name:        "get-appsWithTrustFilter",
		Description: "List catalog apps matching a trust factor",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"trustFactorKey": {Type: "string", Enum: keys, Description: "Trust factor to filter by"},
			},
			Required: []string{"trustFactorKey"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			key := stringArg(args["trustFactorKey"])
			factor, err := domain.ParseTrustFactor(key)
			if err != nil {
				return "", err
			}

			entries, err := source.Get(ctx)
			if err != nil {
				return "", err
			}

			var ids []string
			for _, entry := range entries {
				if !entry.HasTrustFactor(factor) {
					continue
				}
				if id, ok := entry.AppID(); ok {
					ids = append(ids, id)
				}
			}

			if len(ids) == 0 {
				return fmt.Sprintf("No apps found with trust factor: %s", key), nil
			}
			return fmt.Sprintf("Apps with trust factor %s:\n%s", key, strings.Join(ids, "\n")), nil
		},
	}
}
