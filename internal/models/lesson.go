package models

import "time"

// Grade groups lessons for one school year.
type Grade struct {
	ID        string `db:"id" json:"id"`
	Code      string `db:"code" json:"code"`
	Name      string `db:"name" json:"name"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

// Lesson is a single topic page addressed by grade code and topic slug.
type Lesson struct {
	ID        string    `db:"id" json:"id"`
	GradeID   string    `db:"grade_id" json:"-"`
	GradeCode string    `db:"grade_code" json:"grade_code"`
	GradeName string    `db:"grade_name" json:"grade_name"`
	Topic     string    `db:"topic" json:"topic"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GradeWithLessons is the lesson browser index entry.
type GradeWithLessons struct {
	Grade
	Lessons []Lesson `json:"lessons"`
}
