package config

// deprecatedChatModel was removed from the supported model set; version 1
// entries still carrying it have it cleared during migration.
const deprecatedChatModel = "gpt-35-turbo"

// Migrate upgrades an entry in place to CurrentVersion. Returns true when
// the entry was modified. Entries already at the current version are left
// untouched, so migration is idempotent.
func Migrate(e *Entry) bool {
	if e.Version >= CurrentVersion {
		return false
	}

	if e.Version < 2 {
		if e.Data.ChatModel == deprecatedChatModel {
			e.Data.ChatModel = ""
		}
		if e.Options.ChatModel == deprecatedChatModel {
			e.Options.ChatModel = ""
		}
	}

	e.Version = CurrentVersion
	return true
}
