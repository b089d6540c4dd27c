package achievements

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// definitionSearch implements fuzzy.Source over a generation's definitions,
// matching against normalized "name id" strings.
type definitionSearch struct {
	defs  []*models.AchievementDefinition
	names []string
}

func (s definitionSearch) Len() int            { return len(s.names) }
func (s definitionSearch) String(i int) string { return s.names[i] }

// Search fuzzy-matches achievements by name or id, best match first.
func Search(gen *Generation, query string) []*models.AchievementDefinition {
	if gen == nil {
		return nil
	}
	query = normalizeSearchText(query)
	if query == "" {
		return nil
	}

	defs := gen.All()
	src := definitionSearch{defs: defs, names: make([]string, len(defs))}
	for i, def := range defs {
		src.names[i] = normalizeSearchText(def.Name + " " + def.AchievementID)
	}

	matches := fuzzy.FindFrom(query, src)
	results := make([]*models.AchievementDefinition, len(matches))
	for i, match := range matches {
		results[i] = defs[match.Index]
	}
	return results
}

// SearchOne returns the best match for a query, nil when nothing matches.
func SearchOne(gen *Generation, query string) *models.AchievementDefinition {
	results := Search(gen, query)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

// normalizeSearchText lowercases and flattens separators so queries match
// both display names and snake_case ids.
func normalizeSearchText(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
