package model

import (
	"net/url"
	"strings"
)

// TabID identifies a browser tab. Valid ids are positive.
type TabID int

// TabIDNone is the sentinel for "no tab".
const TabIDNone TabID = -1

// Valid reports whether id refers to a real tab.
func (id TabID) Valid() bool { return id > 0 }

// DefaultCookieStore is the container id of tabs that live outside any
// contextual identity.
const DefaultCookieStore = "firefox-default"

// Tab represents a browser tab.
type Tab struct {
	ID           TabID    `yaml:"id"                     json:"id"`
	WindowID     WindowID `yaml:"window"                 json:"window"`
	Index        int      `yaml:"index"                  json:"index"`
	Active       bool     `yaml:"active,omitempty"       json:"active,omitempty"`
	Highlighted  bool     `yaml:"highlighted,omitempty"  json:"highlighted,omitempty"`
	Pinned       bool     `yaml:"pinned,omitempty"       json:"pinned,omitempty"`
	CookieStore  string   `yaml:"cookie_store,omitempty" json:"cookie_store,omitempty"`
	URL          string   `yaml:"url,omitempty"          json:"url,omitempty"`
	Title        string   `yaml:"title,omitempty"        json:"title,omitempty"`
	LastAccessed int64    `yaml:"last_accessed,omitempty" json:"last_accessed,omitempty"`
}

// Container returns the tab's cookie store, mapping the empty value to the
// default store.
func (t Tab) Container() string {
	if t.CookieStore == "" {
		return DefaultCookieStore
	}
	return t.CookieStore
}

// reopenableSchemes lists the URL schemes a tab can be recreated from.
var reopenableSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
}

// Reopenable reports whether the tab's URL can be loaded into a new tab.
// Privileged pages (about:, moz-extension:, file:, ...) cannot.
func (t Tab) Reopenable() bool {
	u, err := url.Parse(t.URL)
	if err != nil {
		return false
	}
	return reopenableSchemes[strings.ToLower(u.Scheme)]
}

// TabIDs returns the ids of tabs in order.
func TabIDs(tabs []Tab) []TabID {
	ids := make([]TabID, len(tabs))
	for i, t := range tabs {
		ids[i] = t.ID
	}
	return ids
}
