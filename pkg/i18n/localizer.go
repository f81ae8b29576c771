package i18n

import (
	"context"
	"sync"

	"souk-oman/pkg/logger"
	"souk-oman/pkg/storage"
)

// Localizer is the language state of one session.
type Localizer struct {
	catalog   *Catalog
	store     *storage.Facade
	logger    *logger.Logger
	mu        sync.RWMutex
	language  string
	observers []func(code string, dir Direction)
}

// NewLocalizer restores the stored language choice. Without one it uses
// preferred when supported, else the catalog default.
func NewLocalizer(ctx context.Context, catalog *Catalog, store *storage.Facade, preferred string, log *logger.Logger) *Localizer {
	l := &Localizer{
		catalog:  catalog,
		store:    store,
		logger:   log,
		language: DefaultLanguage,
	}

	if saved := storage.GetItem(ctx, store, storage.KeyLanguage, ""); catalog.Supports(saved) {
		l.language = saved
	} else if catalog.Supports(preferred) {
		l.language = preferred
	}
	return l
}

func (l *Localizer) Language() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.language
}

func (l *Localizer) Direction() Direction {
	return DirectionOf(l.Language())
}

func (l *Localizer) IsRTL() bool {
	return l.Direction() == RTL
}

func (l *Localizer) AvailableLanguages() []string {
	return l.catalog.Languages()
}

// OnChange registers fn to run after every successful language change.
func (l *Localizer) OnChange(fn func(code string, dir Direction)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// ChangeLanguage switches and persists the language. Unsupported codes are
// logged and ignored; the return value reports whether a switch happened.
func (l *Localizer) ChangeLanguage(ctx context.Context, code string) bool {
	if !l.catalog.Supports(code) {
		l.logger.Warn("Unsupported language: %s", code)
		return false
	}

	l.mu.Lock()
	l.language = code
	observers := make([]func(string, Direction), len(l.observers))
	copy(observers, l.observers)
	l.mu.Unlock()

	l.store.Set(ctx, storage.KeyLanguage, code)

	dir := DirectionOf(code)
	for _, fn := range observers {
		fn(code, dir)
	}
	return true
}

// T resolves a dotted key in the current language and substitutes {param}
// tokens. A missing key comes back unchanged.
func (l *Localizer) T(key string, params map[string]interface{}) string {
	if key == "" {
		l.logger.Warn("Invalid translation key: empty")
		return ""
	}

	code := l.Language()
	value, ok := l.catalog.Lookup(code, key)
	if !ok {
		l.logger.Warn("Translation key not found: %s", key)
		return key
	}

	text, ok := value.(string)
	if !ok {
		return key
	}
	return interpolate(text, params)
}

// FormatPrice renders amount for the current language.
func (l *Localizer) FormatPrice(amount float64) string {
	return FormatPrice(amount, l.Language())
}
