// Package i18n translates the few strings the catalog owns itself: the names
// of the Worldwide and Unknown placeholder entries. Country names come from
// CLDR through golang.org/x/text instead.
package i18n

import (
	"embed"
	"io/fs"
	"log/slog"
	"path"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Message ids.
const (
	MsgWorldwide = "worldwide"
	MsgUnknown   = "unknown"
)

//go:embed locales/*.yaml
var localeFS embed.FS

var (
	bundle     *i18n.Bundle
	bundleOnce sync.Once
)

func loadBundle() *i18n.Bundle {
	bundleOnce.Do(func() {
		bundle = i18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
		parseMessageFiles(bundle, localeFS, "locales", slog.Default())
	})
	return bundle
}

// parseMessageFiles adds every message file in dir to b and returns how
// many were parsed. Unreadable or malformed files are logged and skipped.
func parseMessageFiles(b *i18n.Bundle, fsys fs.FS, dir string, logger *slog.Logger) int {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		logger.Debug("message files unreadable", "dir", dir, "err", err)
		return 0
	}

	parsed := 0
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := path.Join(dir, f.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			logger.Debug("message file unreadable", "file", name, "err", err)
			continue
		}
		if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
			logger.Debug("message file skipped", "file", name, "err", err)
			continue
		}
		parsed++
	}
	return parsed
}

// Languages returns the languages that have translations.
func Languages() []language.Tag {
	return loadBundle().LanguageTags()
}

// Translated reports whether lang, or a close variant of it, has
// translations.
func Translated(lang language.Tag) bool {
	_, _, conf := language.NewMatcher(Languages()).Match(lang)
	return conf >= language.High
}

// T translates messageID into lang. Missing translations fall back to
// English, and unknown ids are returned unchanged.
func T(lang language.Tag, messageID string) string {
	localizer := i18n.NewLocalizer(loadBundle(), lang.String(), language.English.String())
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil || msg == "" {
		return messageID
	}
	return msg
}

// SentinelNames returns the localized names of the Worldwide and Unknown
// entries.
func SentinelNames(lang language.Tag) (worldwide, unknown string) {
	return T(lang, MsgWorldwide), T(lang, MsgUnknown)
}
