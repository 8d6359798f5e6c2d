package models

import "time"

// Student is the learner profile owned by exactly one user.
type Student struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	GradeLabel string    `db:"grade_label" json:"grade"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// StudentCourse is one enrolled course with its schedule text.
type StudentCourse struct {
	StudentID string    `db:"student_id" json:"-"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Title     string    `db:"title" json:"title"`
	Schedule  string    `db:"schedule" json:"schedule"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentScore is the latest score recorded for a course.
type StudentScore struct {
	StudentID string    `db:"student_id" json:"-"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Score     float64   `db:"score" json:"score"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDashboard aggregates what a signed-in student sees.
type StudentDashboard struct {
	User    User                     `json:"user"`
	Student Student                  `json:"student"`
	Courses map[string]StudentCourse `json:"courses"`
	Scores  map[string]float64       `json:"scores"`
}
