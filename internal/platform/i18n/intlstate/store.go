// Package intlstate tracks which locale files are loaded for the running
// process and starts background loads for files a render asks about.
package intlstate

import (
	"context"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/localegate/internal/platform/i18n/localeutil"
	"github.com/louisbranch/localegate/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	defaultPoolSize       = 8
	defaultReleaseTimeout = 5 * time.Second
)

// Options controls store construction.
type Options struct {
	// PoolSize bounds concurrent background loads.
	PoolSize int
	Logger   *slog.Logger
}

// Store records load state per locale file and the messages loaded so far.
type Store struct {
	utils  *localeutil.Utils
	fsys   fs.FS
	pool   *ants.Pool
	group  singleflight.Group
	logger *slog.Logger

	mu       sync.RWMutex
	status   map[string]localeutil.LoadState
	messages map[string]map[string]string
	builder  *catalog.Builder
}

// NewStore returns a store loading files from fsys, the parent of the locales directory.
func NewStore(utils *localeutil.Utils, fsys fs.FS, options Options) (*Store, error) {
	if utils == nil {
		utils = localeutil.Default()
	}
	size := options.PoolSize
	if size <= 0 {
		size = defaultPoolSize
	}
	pool, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &Store{
		utils:    utils,
		fsys:     fsys,
		pool:     pool,
		logger:   logging.OrDefault(options.Logger),
		status:   map[string]localeutil.LoadState{},
		messages: map[string]map[string]string{},
		builder:  catalog.NewBuilder(catalog.Fallback(language.Make(utils.Manifest().DefaultLocale))),
	}, nil
}

// Close waits for in-flight loads and releases the pool.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.ReleaseTimeout(defaultReleaseTimeout)
}

// Utils returns the locale utilities the store loads with.
func (s *Store) Utils() *localeutil.Utils {
	return s.utils
}

func (s *Store) locale(ctx context.Context) string {
	if locale := LocaleFromContext(ctx); locale != "" {
		return locale
	}
	return s.utils.Manifest().DefaultLocale
}

// Status reports the state of pathPart for the context locale. The first
// query for a file marks it Loading and schedules a background load.
func (s *Store) Status(ctx context.Context, pathPart string) localeutil.LoadState {
	locale := s.locale(ctx)
	file := s.utils.LocaleFile(pathPart, locale)

	s.mu.Lock()
	state := s.status[file]
	if state != localeutil.NotLoaded {
		s.mu.Unlock()
		return state
	}
	s.status[file] = localeutil.Loading
	s.mu.Unlock()

	s.schedule(pathPart, locale, file)
	return localeutil.Loading
}

// FileStatus returns the recorded state of one locale file.
func (s *Store) FileStatus(localeFile string) localeutil.LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[localeFile]
}

func (s *Store) schedule(pathPart string, locale string, file string) {
	err := s.pool.Submit(func() {
		if _, err := s.Load(pathPart, locale); err != nil {
			s.logger.Error("load locale file", slog.String("file", file), slog.Any("error", err))
			s.setStatus(file, localeutil.Error)
		}
	})
	if err != nil {
		s.logger.Warn("schedule locale load", slog.String("file", file), slog.Any("error", err))
		// Let the next render retry.
		s.setStatus(file, localeutil.NotLoaded)
	}
}

// Load synchronously loads pathPart for locale and hydrates the store when
// the file resolves. Unresolved files are recorded only if a render is
// already waiting on them. Concurrent loads of the same file share one read.
func (s *Store) Load(pathPart string, locale string) (localeutil.LocalesProps, error) {
	file := s.utils.LocaleFile(pathPart, locale)
	value, err, _ := s.group.Do(file, func() (any, error) {
		props, err := s.utils.LoadFS(s.fsys, pathPart, locale)
		if err != nil {
			return localeutil.LocalesProps{}, err
		}
		if props.Status[file] != localeutil.Loaded {
			s.settleUntracked(file, props.Status[file])
			return props, nil
		}
		s.Hydrate(props)
		s.logger.Debug("locale file loaded", slog.String("file", file), slog.String("locale", props.Locale))
		return props, nil
	})
	if err != nil {
		return localeutil.LocalesProps{}, err
	}
	return value.(localeutil.LocalesProps), nil
}

func (s *Store) settleUntracked(file string, state localeutil.LoadState) {
	if state == localeutil.NotLoaded {
		state = localeutil.Error
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.status[file]; ok && current != localeutil.Loaded {
		s.status[file] = state
	}
}

func (s *Store) setStatus(file string, state localeutil.LoadState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == localeutil.NotLoaded {
		delete(s.status, file)
		return
	}
	s.status[file] = state
}

// Hydrate records data loaded elsewhere, typically by a server-side initial props hook.
func (s *Store) Hydrate(props localeutil.LocalesProps) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for file, state := range props.Status {
		if current := s.status[file]; current == localeutil.Loaded && state != localeutil.Loaded {
			continue
		}
		s.status[file] = state
	}
	for locale, messages := range props.Messages {
		s.mergeLocked(locale, messages)
	}
	requested := strings.TrimSpace(props.RequestedLocale)
	if requested != "" && requested != props.Locale {
		s.mergeLocked(requested, props.LocaleMessages())
	}
}

func (s *Store) mergeLocked(locale string, messages map[string]string) {
	existing, ok := s.messages[locale]
	if !ok {
		existing = map[string]string{}
		s.messages[locale] = existing
	}
	tag, err := language.Parse(locale)
	for key, value := range messages {
		existing[key] = value
		if err == nil {
			if setErr := s.builder.SetString(tag, key, value); setErr != nil {
				s.logger.Warn("register message", slog.String("locale", locale), slog.String("key", key), slog.Any("error", setErr))
			}
		}
	}
}

// Messages returns a copy of the messages loaded for locale.
func (s *Store) Messages(locale string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source := s.messages[strings.TrimSpace(locale)]
	out := make(map[string]string, len(source))
	for key, value := range source {
		out[key] = value
	}
	return out
}

// Printer returns a message printer for the context locale over loaded messages.
func (s *Store) Printer(ctx context.Context) *message.Printer {
	return message.NewPrinter(language.Make(s.locale(ctx)), message.Catalog(s.builder))
}
