package synonyms

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/dshills/drivesearch-mcp/internal/logging"
	"github.com/dshills/drivesearch-mcp/internal/metrics"
	"github.com/dshills/drivesearch-mcp/internal/storage"
)

// DefaultLRUSize is the number of expansions kept in memory
const DefaultLRUSize = 1000

// Config contains configuration for the expander
type Config struct {
	Dictionary *Dictionary // Default: DefaultDictionary()
	Script     Script      // Default: FullScript
	LRUSize    int         // In-memory entries (default: 1000)
	Logger     *zap.Logger
}

// Expander expands a keyword to its spelling and script variants. Results
// are memoized by the exact input word, first in memory and then in the
// synonym store.
type Expander struct {
	store  storage.SynonymStore
	dict   *Dictionary
	script Script
	cache  *lru.Cache[string, []string]
	logger *zap.Logger
}

// NewExpander creates an expander backed by store. A nil store disables
// persistence; expansions are then only kept in memory.
func NewExpander(store storage.SynonymStore, cfg Config) (*Expander, error) {
	if cfg.Dictionary == nil {
		cfg.Dictionary = DefaultDictionary()
	}
	if cfg.Script == nil {
		cfg.Script = FullScript{}
	}
	if cfg.LRUSize <= 0 {
		cfg.LRUSize = DefaultLRUSize
	}

	cache, err := lru.New[string, []string](cfg.LRUSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create synonym cache: %w", err)
	}

	return &Expander{
		store:  store,
		dict:   cfg.Dictionary,
		script: cfg.Script,
		cache:  cache,
		logger: logging.OrDefault(cfg.Logger),
	}, nil
}

// Normalize returns the comparison form of text
func (e *Expander) Normalize(text string) string {
	return e.script.Normalize(text)
}

// GetSynonyms returns word and every variant of it, de-duplicated in
// discovery order: the word, its normalized form, its dictionary class,
// then script variants. The result always contains word.
func (e *Expander) GetSynonyms(ctx context.Context, word string) []string {
	if variants, ok := e.cache.Get(word); ok {
		metrics.RecordSynonymLookup("lru")
		return append([]string(nil), variants...)
	}

	if variants, ok := e.lookupStore(ctx, word); ok {
		metrics.RecordSynonymLookup("store")
		e.cache.Add(word, variants)
		return append([]string(nil), variants...)
	}

	metrics.RecordSynonymLookup("miss")
	variants := e.expand(word)
	e.persist(ctx, word, variants)
	e.cache.Add(word, variants)
	return append([]string(nil), variants...)
}

func (e *Expander) lookupStore(ctx context.Context, word string) ([]string, bool) {
	if e.store == nil {
		return nil, false
	}
	entry, err := e.store.GetSynonyms(ctx, word)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			e.logger.Warn("synonym cache read failed, recomputing",
				zap.String("word", word),
				zap.Error(err))
		}
		return nil, false
	}
	return entry.Variants, true
}

func (e *Expander) expand(word string) []string {
	normalized := e.script.Normalize(word)
	variants := []string{word, normalized}

	if class, ok := e.dict.Lookup(normalized); ok {
		variants = append(variants, class...)
	}
	variants = append(variants, e.script.Variants(normalized)...)

	out := dedupe(variants)
	if len(out) == 0 {
		// dedupe drops empty strings; the input itself is always returned
		out = []string{word}
	}
	return out
}

func (e *Expander) persist(ctx context.Context, word string, variants []string) {
	if e.store == nil {
		return
	}
	err := e.store.PutSynonyms(ctx, &storage.SynonymEntry{Word: word, Variants: variants})
	if err != nil {
		metrics.RecordPersistFailure("synonym")
		e.logger.Warn("failed to cache synonyms",
			zap.String("word", word),
			zap.Error(err))
	}
}
