package models

import "github.com/google/uuid"

// assignID gives a record a fresh uuid unless one was set by the caller.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Setting{},
		&DiaryEntry{},
		&Reminder{},
		&Task{},
	}
}
