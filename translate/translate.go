// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package translate formats user-facing messages for the user's locale.
package translate

import (
	"sync"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	mu          sync.RWMutex
	printer     *message.Printer
	catalogOnce sync.Once
)

// Languages with message catalogs. The first is the fallback.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.German,
}

var matcher = language.NewMatcher(supported)

// Catalog entries for languages other than en-US. Keys are the en-US
// format strings.
var catalog = map[language.Tag]map[string]string{
	language.German: {
		"Breakpoint added at $%04X.\n":      "Haltepunkt bei $%04X hinzugefügt.\n",
		"Breakpoint removed at $%04X.\n":    "Haltepunkt bei $%04X entfernt.\n",
		"Breakpoint hit at $%04X.\n":        "Haltepunkt bei $%04X erreicht.\n",
		"Data breakpoint hit on $%04X.\n":   "Datenhaltepunkt bei $%04X erreicht.\n",
		"Ran %d cycles (%d total).\n":       "%d Zyklen ausgeführt (%d insgesamt).\n",
		"No breakpoints set.\n":             "Keine Haltepunkte gesetzt.\n",
		"Loaded '%s' to $%04X..$%04X.\n":    "'%s' nach $%04X..$%04X geladen.\n",
		"Command not found.\n":              "Befehl nicht gefunden.\n",
		"Command is ambiguous.\n":           "Befehl ist mehrdeutig.\n",
		"Interrupted after %d cycles.\n":    "Nach %d Zyklen unterbrochen.\n",
		"Setting '%s' is not recognized.\n": "Einstellung '%s' ist unbekannt.\n",
	},
}

// Register the catalog with the message package. The entries are static,
// so a failure is a programming error.
func loadCatalog() {
	for tag, entries := range catalog {
		for key, msg := range entries {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// Detect selects the best supported language for the user's system
// locales. When the locales cannot be determined, en-US is used.
func Detect() {
	locales, _ := locale.GetLocales()
	SetLanguage(locales...)
}

// SetLanguage selects the best supported language among the provided
// BCP 47 tags. With no tags, en-US is used.
func SetLanguage(tags ...string) {
	catalogOnce.Do(loadCatalog)
	if len(tags) == 0 {
		tags = []string{"en-US"}
	}

	tag, _ := language.MatchStrings(matcher, tags...)
	p := message.NewPrinter(tag)
	mu.Lock()
	printer = p
	mu.Unlock()
}

// From an en-US Sprintf() format, translate to string. Until a language is
// selected, en-US is used.
func From(key message.Reference, args ...any) string {
	mu.RLock()
	p := printer
	mu.RUnlock()
	if p == nil {
		SetLanguage()
		return From(key, args...)
	}
	return p.Sprintf(key, args...)
}
