package docgen

import (
	"fmt"
	"io"
	"os"
)

// Engine prepares templates and owns their cache. The zero-value behavior
// comes from the global configuration; functional options override it.
type Engine struct {
	config *Config
	cache  *TemplateCache
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithConfig sets the engine configuration.
func WithConfig(config *Config) EngineOption {
	return func(e *Engine) {
		e.config = config
	}
}

// WithCache sets the template cache. The engine takes ownership and closes
// the cache with Close.
func WithCache(cache *TemplateCache) EngineOption {
	return func(e *Engine) {
		e.cache = cache
	}
}

// New creates an Engine.
func New(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.config == nil {
		e.config = GetGlobalConfig()
	}
	if e.cache == nil {
		e.cache = NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: e.config.CacheMaxSize,
			TTL:     e.config.CacheTTL,
		})
	}
	return e
}

// PrepareFile prepares the template at path, keyed in the cache by the path.
func (e *Engine) PrepareFile(path string) (*PreparedTemplate, error) {
	if tpl, ok := e.cache.Get(path); ok {
		return tpl, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}

	tpl, err := prepareTemplate(content, path, e.config)
	if err != nil {
		return nil, err
	}

	e.cache.Set(path, tpl)
	return tpl, nil
}

// Prepare prepares a template from a reader, keyed in the cache by a content
// hash of the template bytes.
func (e *Engine) Prepare(r io.Reader) (*PreparedTemplate, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, NewDocumentError("read", "", err)
	}

	key := ContentKey(content)
	if tpl, ok := e.cache.Get(key); ok {
		return tpl, nil
	}

	tpl, err := prepareTemplate(content, "", e.config)
	if err != nil {
		return nil, err
	}

	e.cache.Set(key, tpl)
	return tpl, nil
}

// Populate is a convenience for prepare-and-populate in one call.
func (e *Engine) Populate(templatePath string, data TemplateData) (*PopulationResult, error) {
	tpl, err := e.PrepareFile(templatePath)
	if err != nil {
		return nil, err
	}
	return tpl.Populate(data)
}

// PopulateToFile populates the template and writes the result to outputPath.
func (e *Engine) PopulateToFile(templatePath string, data TemplateData, outputPath string) (*ErrorCollector, error) {
	result, err := e.Populate(templatePath, data)
	if err != nil {
		return nil, err
	}
	if err := result.SaveToFile(outputPath); err != nil {
		return nil, err
	}
	return result.Errors, nil
}

// Close releases the engine's cache and every prepared template in it.
func (e *Engine) Close() error {
	return e.cache.Close()
}

// PrepareFile prepares a template file with the global configuration and the
// package-level cache.
func PrepareFile(path string) (*PreparedTemplate, error) {
	if tpl, ok := defaultCache.Get(path); ok {
		return tpl, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}

	tpl, err := prepareTemplate(content, path, nil)
	if err != nil {
		return nil, err
	}

	defaultCache.Set(path, tpl)
	return tpl, nil
}

// Prepare prepares a template from a reader with the global configuration
// and the package-level cache.
func Prepare(r io.Reader) (*PreparedTemplate, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	key := ContentKey(content)
	if tpl, ok := defaultCache.Get(key); ok {
		return tpl, nil
	}

	tpl, err := prepareTemplate(content, "", nil)
	if err != nil {
		return nil, err
	}

	defaultCache.Set(key, tpl)
	return tpl, nil
}
