package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"

	"brewcalc/internal/recipe"
)

const recipePrefix = "recipe/"

// RecipeVersion is one saved revision of a recipe.
type RecipeVersion struct {
	ID      string        `json:"id"`
	Version int           `json:"version"`
	SavedAt time.Time     `json:"saved_at"`
	Recipe  recipe.Recipe `json:"recipe"`
}

// Recipes keeps an append-only version history per recipe id.
type Recipes struct {
	store *Store
	now   func() time.Time
}

// NewRecipes returns the recipe repository backed by s.
func NewRecipes(s *Store) *Recipes {
	return &Recipes{store: s, now: func() time.Time { return time.Now().UTC() }}
}

func recipeKey(id string, version int) string {
	return fmt.Sprintf("%s%s/v%06d", recipePrefix, id, version)
}

// Save appends a new version. A recipe without an id is given one.
func (r *Recipes) Save(ctx context.Context, rec recipe.Recipe) (RecipeVersion, error) {
	if strings.TrimSpace(rec.ID) == "" {
		rec.ID = uuid.NewString()
	}
	versions, err := r.versions(ctx, rec.ID)
	if err != nil {
		return RecipeVersion{}, err
	}
	next := 1
	if len(versions) > 0 {
		next = versions[len(versions)-1] + 1
	}
	rv := RecipeVersion{
		ID:      rec.ID,
		Version: next,
		SavedAt: r.now(),
		Recipe:  rec,
	}
	if err := Put(ctx, r.store, recipeKey(rec.ID, next), rv); err != nil {
		return RecipeVersion{}, err
	}
	return rv, nil
}

// Load returns one version of a recipe.
func (r *Recipes) Load(ctx context.Context, id string, version int) (RecipeVersion, error) {
	return Get[RecipeVersion](ctx, r.store, recipeKey(id, version))
}

// Latest returns the newest version of a recipe.
func (r *Recipes) Latest(ctx context.Context, id string) (RecipeVersion, error) {
	versions, err := r.versions(ctx, id)
	if err != nil {
		return RecipeVersion{}, err
	}
	if len(versions) == 0 {
		return RecipeVersion{}, newError(KindNotFound, recipePrefix+id, nil)
	}
	return r.Load(ctx, id, versions[len(versions)-1])
}

// History returns every version of a recipe, oldest first.
func (r *Recipes) History(ctx context.Context, id string) ([]RecipeVersion, error) {
	versions, err := r.versions(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, newError(KindNotFound, recipePrefix+id, nil)
	}
	out := make([]RecipeVersion, 0, len(versions))
	for _, v := range versions {
		rv, err := r.Load(ctx, id, v)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, nil
}

// IDs lists every stored recipe id.
func (r *Recipes) IDs(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx, recipePrefix)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, k := range keys {
		id, _, ok := parseRecipeKey(k)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Diff renders both versions as YAML and returns a unified diff between
// them. Identical versions produce an empty string.
func (r *Recipes) Diff(ctx context.Context, id string, from, to int) (string, error) {
	a, err := r.Load(ctx, id, from)
	if err != nil {
		return "", err
	}
	b, err := r.Load(ctx, id, to)
	if err != nil {
		return "", err
	}
	aYAML, err := recipe.Marshal(a.Recipe)
	if err != nil {
		return "", err
	}
	bYAML, err := recipe.Marshal(b.Recipe)
	if err != nil {
		return "", err
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(aYAML)),
		B:        difflib.SplitLines(string(bYAML)),
		FromFile: fmt.Sprintf("%s@v%d", id, from),
		ToFile:   fmt.Sprintf("%s@v%d", id, to),
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s v%d..v%d: %w", id, from, to, err)
	}
	return text, nil
}

func (r *Recipes) versions(ctx context.Context, id string) ([]int, error) {
	keys, err := r.store.Keys(ctx, recipePrefix+id+"/")
	if err != nil {
		return nil, err
	}
	var out []int
	for _, k := range keys {
		kid, v, ok := parseRecipeKey(k)
		if ok && kid == id {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out, nil
}

func parseRecipeKey(key string) (string, int, bool) {
	rest := strings.TrimPrefix(key, recipePrefix)
	idx := strings.LastIndex(rest, "/v")
	if idx <= 0 {
		return "", 0, false
	}
	v, err := strconv.Atoi(rest[idx+2:])
	if err != nil {
		return "", 0, false
	}
	return rest[:idx], v, true
}
