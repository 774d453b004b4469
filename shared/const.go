package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	BlockTypeText     = "text"
	BlockTypeScenario = "scenario"
	BlockTypeQuiz     = "quiz"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	TicketStatusOpen    = "open"
	TicketStatusPending = "pending"
	TicketStatusClosed  = "closed"

	CampaignStatusDraft  = "draft"
	CampaignStatusQueued = "queued"
)
