package dto

import "time"

// ==================== BLOG / NOTICES ====================

type BlogPostResponse struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	CoverURL    string     `json:"cover_url"`
	AuthorID    string     `json:"author_id"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type BlogPostCollectionResponse struct {
	Posts []BlogPostResponse `json:"posts"`
	Total int                `json:"total"`
}

type CreateBlogPostRequest struct {
	Kind  string `json:"kind" validate:"omitempty,oneof=post notice"`
	Title string `json:"title" validate:"required,min=3,max=160"`
	Body  string `json:"body" validate:"required"`
}

func (r CreateBlogPostRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateBlogPostRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=160"`
	Body        *string `json:"body"`
	IsPublished *bool   `json:"is_published"`
}

func (r UpdateBlogPostRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== SUPPORT TICKETS ====================

type CreateTicketRequest struct {
	Subject string `json:"subject" validate:"required,min=3,max=160"`
	Body    string `json:"body" validate:"required"`
}

func (r CreateTicketRequest) Validate() error {
	return GetValidator().Struct(r)
}

type RespondTicketRequest struct {
	Response string `json:"response" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=open pending closed"`
}

func (r RespondTicketRequest) Validate() error {
	return GetValidator().Struct(r)
}

type TicketResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	Response  string    `json:"response,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TicketCollectionResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   int              `json:"total"`
}

// ==================== EMAIL CAMPAIGNS ====================

type CreateCampaignRequest struct {
	Title          string `json:"title" validate:"required,min=3,max=160"`
	Subject        string `json:"subject" validate:"required,min=3,max=200"`
	Body           string `json:"body" validate:"required"`
	TargetRole     string `json:"target_role" validate:"omitempty,oneof=user admin"`
	TargetMinLevel int    `json:"target_min_level" validate:"min=0"`
}

func (r CreateCampaignRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CampaignResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body"`
	TargetRole     string     `json:"target_role,omitempty"`
	TargetMinLevel int        `json:"target_min_level"`
	Status         string     `json:"status"`
	RecipientCount int        `json:"recipient_count"`
	QueuedAt       *time.Time `json:"queued_at,omitempty"`
}

type CampaignCollectionResponse struct {
	Campaigns []CampaignResponse `json:"campaigns"`
	Total     int                `json:"total"`
}
