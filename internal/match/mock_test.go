// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"

	"github.com/pdiddy/refmatch/pkg/types"
)

// mockRepository implements PublicationRepository with configurable
// function fields. Unset fields return nothing. Every call is recorded so
// tests can assert which operations the cascade reached.
type mockRepository struct {
	getByDOI             func(doi string) (*types.Publication, error)
	getByPMID            func(pmid string) (*types.Publication, error)
	byTitleAuthorsYear   func(title string, authors []string, year int) ([]types.Publication, error)
	byTitleAuthors       func(title string, authors []string) ([]types.Publication, error)
	byTitleYear          func(title string, year int) ([]types.Publication, error)
	byTitle              func(title string) ([]types.Publication, error)

	calls []string
}

func (m *mockRepository) GetByDOI(_ context.Context, doi string) (*types.Publication, error) {
	m.calls = append(m.calls, "get_by_doi")
	if m.getByDOI == nil {
		return nil, nil
	}
	return m.getByDOI(doi)
}

func (m *mockRepository) GetByPMID(_ context.Context, pmid string) (*types.Publication, error) {
	m.calls = append(m.calls, "get_by_pmid")
	if m.getByPMID == nil {
		return nil, nil
	}
	return m.getByPMID(pmid)
}

func (m *mockRepository) SearchByTitleAuthorsYear(_ context.Context, title string, authors []string, year int) ([]types.Publication, error) {
	m.calls = append(m.calls, "search_by_title_authors_year")
	if m.byTitleAuthorsYear == nil {
		return nil, nil
	}
	return m.byTitleAuthorsYear(title, authors, year)
}

func (m *mockRepository) SearchByTitleAuthors(_ context.Context, title string, authors []string) ([]types.Publication, error) {
	m.calls = append(m.calls, "search_by_title_authors")
	if m.byTitleAuthors == nil {
		return nil, nil
	}
	return m.byTitleAuthors(title, authors)
}

func (m *mockRepository) SearchByTitleYear(_ context.Context, title string, year int) ([]types.Publication, error) {
	m.calls = append(m.calls, "search_by_title_year")
	if m.byTitleYear == nil {
		return nil, nil
	}
	return m.byTitleYear(title, year)
}

func (m *mockRepository) SearchByTitle(_ context.Context, title string) ([]types.Publication, error) {
	m.calls = append(m.calls, "search_by_title")
	if m.byTitle == nil {
		return nil, nil
	}
	return m.byTitle(title)
}

// testPublication builds a candidate with the given title, authors and
// year in OpenAlex shape.
func testPublication(id, title string, year int, authors ...string) types.Publication {
	pub := types.Publication{
		ID:              "https://openalex.org/" + id,
		Title:           title,
		DOI:             "https://doi.org/10.1234/" + id,
		PublicationYear: year,
		PublicationDate: "2023-05-01",
		Type:            "article",
		PrimaryLocation: &types.Location{
			Source: &types.Source{DisplayName: "Journal of Medical Research"},
		},
		OpenAccess:   types.OpenAccess{IsOA: true, OAURL: "https://example.org/" + id + ".pdf"},
		CitedByCount: 42,
	}
	for _, a := range authors {
		pub.Authorships = append(pub.Authorships, types.Authorship{Author: types.Author{DisplayName: a}})
	}
	return pub
}
