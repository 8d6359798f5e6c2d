package dto

import "time"

// NewsResponse is the public JSON shape of a news entry.
type NewsResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	AttachmentURL  string    `json:"attachment_url,omitempty"`
	AttachmentName string    `json:"attachment_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// LessonResponse is the public JSON shape of a lesson.
type LessonResponse struct {
	GradeCode string `json:"grade_code"`
	GradeName string `json:"grade_name"`
	Topic     string `json:"topic"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

// GradeResponse lists the lesson topics of one grade.
type GradeResponse struct {
	Code    string           `json:"code"`
	Name    string           `json:"name"`
	Lessons []LessonResponse `json:"lessons"`
}
