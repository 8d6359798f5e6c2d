package dto

// RegisterForm is submitted from the sign-up page.
type RegisterForm struct {
	Username string `form:"username" validate:"required,max=50"`
	Password string `form:"password" validate:"required"`
	Confirm  string `form:"confirm_password" validate:"required"`
	Grade    string `form:"grade" validate:"max=50"`
}

// LoginForm carries credentials from the login page.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// ChangePasswordForm updates the signed-in user's password.
type ChangePasswordForm struct {
	OldPassword string `form:"old_password" validate:"required"`
	NewPassword string `form:"new_password" validate:"required"`
	Confirm     string `form:"confirm_password" validate:"required"`
}

// ContactForm is the public enquiry form.
type ContactForm struct {
	Name    string `form:"name" validate:"required,max=100"`
	Grade   string `form:"grade" validate:"max=50"`
	Email   string `form:"email" validate:"required,email,max=254"`
	Message string `form:"message" validate:"required,max=5000"`
}

// NewsForm creates a news entry; the attachment travels separately as the "image" file field.
type NewsForm struct {
	Title   string `form:"title" validate:"required,max=100"`
	Content string `form:"content" validate:"required"`
}

// RoleChangeForm promotes or demotes a user.
type RoleChangeForm struct {
	UserID string `form:"user_id" validate:"required"`
	Action string `form:"action" validate:"required,oneof=promote demote"`
}

// StudentGradeForm sets a student's grade label.
type StudentGradeForm struct {
	Grade string `form:"grade" validate:"required,max=50"`
}

// StudentCourseForm adds or replaces one course for a student.
type StudentCourseForm struct {
	CourseID string `form:"course_id" validate:"required,max=50"`
	Title    string `form:"title" validate:"required,max=100"`
	Schedule string `form:"schedule" validate:"max=100"`
}

// StudentScoreForm records a course score between 0 and 100.
type StudentScoreForm struct {
	CourseID string  `form:"course_id" validate:"required,max=50"`
	Score    float64 `form:"score" validate:"gte=0,lte=100"`
}
