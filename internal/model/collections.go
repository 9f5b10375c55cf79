package model

import "time"

// Collection storage keys.
const (
	CollectionUsers                = "users"
	CollectionProjects             = "projects"
	CollectionTasks                = "tasks"
	CollectionComments             = "comments"
	CollectionTimeLogs             = "timeLogs"
	CollectionTimeEntries          = "timeEntries"
	CollectionNotifications        = "notifications"
	CollectionAchievements         = "achievements"
	CollectionChallenges           = "challenges"
	CollectionChallengeSubmissions = "challengeSubmissions"
	CollectionChatMessages         = "chatMessages"
)

// Collections lists every storage key known to the application.
var Collections = []string{
	CollectionUsers,
	CollectionProjects,
	CollectionTasks,
	CollectionComments,
	CollectionTimeLogs,
	CollectionTimeEntries,
	CollectionNotifications,
	CollectionAchievements,
	CollectionChallenges,
	CollectionChallengeSubmissions,
	CollectionChatMessages,
}

// Defaulter is implemented by entities that fill fields at creation time.
// Entities whose defaults are time-independent implement SimpleDefaulter.
type Defaulter interface {
	ApplyDefaults(now time.Time)
}

// SimpleDefaulter is implemented by entities with time-independent defaults.
type SimpleDefaulter interface {
	ApplyDefaults()
}

// ApplyDefaults runs whichever defaulting hook v implements.
func ApplyDefaults(v any, now time.Time) {
	switch d := v.(type) {
	case Defaulter:
		d.ApplyDefaults(now)
	case SimpleDefaulter:
		d.ApplyDefaults()
	}
}
