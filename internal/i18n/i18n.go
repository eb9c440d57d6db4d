package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embedded embed.FS

// Bundle maps (language, key) to a localized string. It is read-only after
// Load and safe for concurrent use.
type Bundle struct {
	fallback string
	langs    []string
	messages map[string]map[string]string
	matcher  language.Matcher
}

// Load reads every <lang>.json file under dir in fsys. fallback must be one
// of the loaded languages.
func Load(fsys fs.FS, dir, fallback string) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	b := &Bundle{fallback: fallback, messages: make(map[string]map[string]string)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		lang := strings.TrimSuffix(e.Name(), ".json")
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		m := map[string]string{}
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		b.messages[lang] = m
		b.langs = append(b.langs, lang)
	}
	if _, ok := b.messages[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q not found in %s", fallback, dir)
	}

	// the fallback goes first so the matcher prefers it on ties
	sort.Slice(b.langs, func(i, j int) bool {
		if b.langs[i] == fallback || b.langs[j] == fallback {
			return b.langs[i] == fallback
		}
		return b.langs[i] < b.langs[j]
	})
	tags := make([]language.Tag, 0, len(b.langs))
	for _, l := range b.langs {
		tags = append(tags, language.Make(l))
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Default loads the locales compiled into the binary.
func Default(fallback string) (*Bundle, error) {
	return Load(embedded, "locales", fallback)
}

// T returns the message for key in lang, then in the fallback language,
// then key itself.
func (b *Bundle) T(lang, key string) string {
	if m, ok := b.messages[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := b.messages[b.fallback][key]; ok {
		return s
	}
	return key
}

// Tf formats the message for key with args.
func (b *Bundle) Tf(lang, key string, args ...any) string {
	return fmt.Sprintf(b.T(lang, key), args...)
}

// Languages lists the loaded languages, fallback first.
func (b *Bundle) Languages() []string {
	return append([]string(nil), b.langs...)
}

func (b *Bundle) Supports(lang string) bool {
	_, ok := b.messages[lang]
	return ok
}

// Negotiate picks the best loaded language for an Accept-Language header.
func (b *Bundle) Negotiate(accept string) string {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.fallback
	}
	return b.langs[idx]
}
