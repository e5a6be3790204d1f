// Package store loads, validates, saves and hot-reloads the aigrid
// configuration.
//
// The configuration lives in a directory as two JSON files:
//
//	settings.json   {"app": {...}, "window": {...}, "gui": {...}}
//	ai_apps.json    {"ai_apps": [{"name": ..., "enabled": ..., "priority": ..., "keywords": [...]}]}
//
// A [Store] merges them into one [document.Document], validates it with
// the schema package and commits it only when valid. Observers registered
// with [Store.AddObserver] receive config_loaded, config_saved,
// config_reloaded and config_error events.
//
// Hot reload is a polling contract: [Store.CheckForChanges] compares file
// modification times with those recorded at the last successful load or
// save and reloads when any file is newer. Callers drive it from their
// own loop; see the watch package.
//
// Save writes each file through a temp file and rename, but the pair is
// not written transactionally: a failure writing ai_apps.json leaves the
// new settings.json in place.
package store
