package model

import "time"

// Comment belongs to a task by task_id. The reference is deliberately not a
// database foreign key: deleting a task leaves its comments orphaned.
// A comment carries no owner of its own; ownership is derived through the task.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
