package shared

const (
	UserID    = "user_id"
	UserRole  = "user_role"
	SessionID = "session_id"

	ActivityQuestion       = "question"
	ActivityQuiz           = "quiz"
	ActivityArticle        = "article"
	ActivityTrailContent   = "trail_content"
	ActivityTrailCompleted = "trail_completed"
	ActivityBookmark       = "bookmark"
)
