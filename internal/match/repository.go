// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"

	"github.com/pdiddy/refmatch/pkg/types"
)

// PublicationRepository is the external collaborator the strategies query.
// The production implementation is the OpenAlex adapter; tests substitute
// a mock.
//
// Lookup operations return nil (not an error) when the identifier resolves
// to nothing. Search operations return candidates in the collaborator's
// own relevance order (the strategies re-rank by similarity) and an empty
// slice, never nil, when nothing matches.
// Retries, backoff and politeness are the implementation's
// concern; any error it does return is classified by the strategies as an
// API error.
type PublicationRepository interface {
	GetByDOI(ctx context.Context, doi string) (*types.Publication, error)
	GetByPMID(ctx context.Context, pmid string) (*types.Publication, error)
	SearchByTitleAuthorsYear(ctx context.Context, title string, authors []string, year int) ([]types.Publication, error)
	SearchByTitleAuthors(ctx context.Context, title string, authors []string) ([]types.Publication, error)
	SearchByTitleYear(ctx context.Context, title string, year int) ([]types.Publication, error)
	SearchByTitle(ctx context.Context, title string) ([]types.Publication, error)
}
