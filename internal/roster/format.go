package roster

import "strings"

var statusEmoji = map[Status]string{
	StatusActive:  "✅",
	StatusMuted:   "🔇",
	StatusDeleted: "🗑️",
	StatusBlocked: "🚫",
}

// StatusEmoji returns the emoji used when listing users by status.
func StatusEmoji(s Status) string {
	if e, ok := statusEmoji[s]; ok {
		return e
	}
	return "❓"
}

// DisplayName formats a record for human listings: "First Last (@username)",
// falling back to "Unknown" when no name fields are set.
func DisplayName(rec UserRecord) string {
	var parts []string
	if rec.FirstName != "" {
		parts = append(parts, rec.FirstName)
	}
	if rec.LastName != "" {
		parts = append(parts, rec.LastName)
	}
	name := strings.Join(parts, " ")
	if name == "" {
		name = "Unknown"
	}
	if rec.Username != "" {
		return name + " (@" + rec.Username + ")"
	}
	return name
}
