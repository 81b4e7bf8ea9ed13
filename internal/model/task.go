package model

import "time"

// Task type constants. The type partitions tasks into two disjoint
// lifecycles: daily tasks are un-completed on a schedule, monthly tasks
// persist until deleted.
const (
	TypeDaily   = "daily"
	TypeMonthly = "monthly"
)

// ValidType reports whether typ is one of the two known task types.
func ValidType(typ string) bool {
	return typ == TypeDaily || typ == TypeMonthly
}

// Task represents a single item on a user's list.
type Task struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index:idx_user_type"`
	Type      string `gorm:"index:idx_user_type"`
	Text      string
	Completed bool `gorm:"default:false"`
	// ResetTime records the HH:MM reset time in effect when a daily task
	// was created. Nil for monthly tasks.
	ResetTime *string
	CreatedAt time.Time
}
