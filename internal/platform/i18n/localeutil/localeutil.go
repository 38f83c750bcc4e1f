// Package localeutil resolves locale file paths and loads their messages,
// walking the locale fallback chain when a file is missing.
package localeutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	apperrors "github.com/louisbranch/localegate/internal/platform/errors"
	"github.com/louisbranch/localegate/internal/platform/i18n/manifest"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// LocalePlaceholder is replaced by the locale inside a path part.
const LocalePlaceholder = "$locale"

// LocalesProps is the serializable result of a server-side locale load.
type LocalesProps struct {
	// Locale is the locale whose file satisfied the load.
	Locale string
	// RequestedLocale is the locale the caller asked for before fallback.
	RequestedLocale string
	// Messages maps locale to its flattened messages.
	Messages map[string]map[string]string
	// Status maps every attempted locale file to its final state.
	Status map[string]LoadState
}

// LocaleMessages returns the messages for the satisfying locale.
func (p LocalesProps) LocaleMessages() map[string]string {
	if p.Messages == nil {
		return map[string]string{}
	}
	messages, ok := p.Messages[p.Locale]
	if !ok {
		return map[string]string{}
	}
	return messages
}

// Utils loads locale files described by a manifest.
type Utils struct {
	manifest *manifest.Manifest
}

// New returns Utils bound to m. A nil manifest follows manifest.Default.
func New(m *manifest.Manifest) *Utils {
	return &Utils{manifest: m}
}

// Default returns Utils bound to the process-wide manifest.
func Default() *Utils {
	return &Utils{}
}

// Manifest returns the manifest in effect.
func (u *Utils) Manifest() *manifest.Manifest {
	if u == nil || u.manifest == nil {
		return manifest.Default()
	}
	return u.manifest
}

// LocaleFile returns the slash-separated file path for a path part and locale.
func (u *Utils) LocaleFile(pathPart string, locale string) string {
	pathPart = strings.TrimSpace(pathPart)
	if pathPart == "" {
		pathPart = u.Manifest().DefaultPath
	}
	replaced := strings.ReplaceAll(pathPart, LocalePlaceholder, locale)
	if strings.HasSuffix(replaced, ".json") {
		return path.Clean("/" + replaced)
	}
	return path.Join("/", replaced, locale+".json")
}

// FallbackLocale returns the next locale to try after locale.
// Region-qualified locales fall back to their language, then to the default locale.
func (u *Utils) FallbackLocale(locale string) (string, bool) {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexByte(locale, '-'); i > 0 {
		return locale[:i], true
	}
	defaultLocale := u.Manifest().DefaultLocale
	if locale != defaultLocale {
		return defaultLocale, true
	}
	return "", false
}

// ServerLoadData loads messages for pathPart and locale from files under localesDir.
// A missing file walks the fallback chain; when the chain is exhausted the
// result carries empty messages and an Error status, not an error value.
func (u *Utils) ServerLoadData(pathPart string, locale string, localesDir string) (LocalesProps, error) {
	localesDir = strings.TrimSpace(localesDir)
	if localesDir == "" {
		localesDir = "."
	}
	return u.LoadFS(os.DirFS(localesDir), pathPart, locale)
}

// LoadFS loads messages for pathPart and locale from fsys.
func (u *Utils) LoadFS(fsys fs.FS, pathPart string, locale string) (LocalesProps, error) {
	m := u.Manifest()
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = m.DefaultLocale
	}
	requested := locale
	requestedFile := u.LocaleFile(pathPart, requested)
	props := LocalesProps{
		RequestedLocale: requested,
		Messages:        map[string]map[string]string{},
		Status:          map[string]LoadState{},
	}

	visited := map[string]struct{}{}
	current := m.MapLocale(locale)
	for {
		if _, err := language.Parse(current); err != nil {
			return LocalesProps{}, apperrors.WrapWithMetadata(apperrors.CodeLocaleInvalid, "invalid locale",
				map[string]string{"locale": current}, err)
		}
		visited[current] = struct{}{}
		localeFile := u.LocaleFile(pathPart, current)

		messages, err := ReadMessages(fsys, localeFile)
		if err == nil {
			props.Locale = current
			props.Messages[current] = messages
			for file := range props.Status {
				props.Status[file] = Loaded
			}
			props.Status[localeFile] = Loaded
			props.Status[requestedFile] = Loaded
			return props, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return LocalesProps{}, err
		}
		props.Status[localeFile] = Error

		next, ok := u.FallbackLocale(current)
		if !ok {
			break
		}
		if _, seen := visited[next]; seen {
			break
		}
		current = next
	}

	props.Locale = requested
	props.Messages[requested] = map[string]string{}
	props.Status[requestedFile] = Error
	return props, nil
}

// ReadMessages reads and flattens one locale file from fsys.
func ReadMessages(fsys fs.FS, localeFile string) (map[string]string, error) {
	name := strings.TrimPrefix(path.Clean("/"+localeFile), "/")
	if !fs.ValidPath(name) {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeLocaleInvalid, "invalid locale file path",
			map[string]string{"path": localeFile}, fs.ErrInvalid)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, apperrors.WrapWithMetadata(apperrors.CodeLocaleFileRead, "read locale file",
			map[string]string{"path": localeFile}, err)
	}
	messages, err := ParseMessages(data)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeLocaleFileInvalid, "parse locale file",
			map[string]string{"path": localeFile}, err)
	}
	return messages, nil
}

// ParseMessages decodes a JSON or YAML message document. Nested objects are
// flattened into dot-separated keys.
func ParseMessages(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	if err := flatten("", raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(prefix string, value map[string]any, out map[string]string) error {
	keys := make([]string, 0, len(value))
	for key := range value {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			return fmt.Errorf("message key cannot be blank")
		}
		fullKey := trimmed
		if prefix != "" {
			fullKey = prefix + "." + trimmed
		}
		switch typed := value[key].(type) {
		case map[string]any:
			if err := flatten(fullKey, typed, out); err != nil {
				return err
			}
			continue
		case []any:
			return fmt.Errorf("message %q: lists are not supported", fullKey)
		}
		if _, exists := out[fullKey]; exists {
			return fmt.Errorf("duplicate message key %q", fullKey)
		}
		switch typed := value[key].(type) {
		case string:
			out[fullKey] = typed
		case nil:
			out[fullKey] = ""
		default:
			out[fullKey] = fmt.Sprint(typed)
		}
	}
	return nil
}
