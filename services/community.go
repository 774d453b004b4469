package services

import (
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/rebooto/rebooto_api/dto"
	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/shared"
)

// CommunityService covers the blog, the notice board, support tickets and
// email campaign authoring.
type CommunityService struct {
	context.DefaultService

	postgresSvc *PostgresService
}

const COMMUNITY_SVC = "community_svc"

func (svc CommunityService) Id() string {
	return COMMUNITY_SVC
}

func (svc *CommunityService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *CommunityService) Start() error {
	svc.postgresSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

// ==================== BLOG / NOTICES ====================

func (svc *CommunityService) GetPosts(kind string, includeUnpublished bool) (*dto.BlogPostCollectionResponse, error) {
	posts, err := svc.postgresSvc.GetBlogPosts(kind, !includeUnpublished)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BlogPostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, svc.mapPostToResponse(&post))
	}

	return &dto.BlogPostCollectionResponse{
		Posts: responses,
		Total: len(responses),
	}, nil
}

func (svc *CommunityService) GetPost(postID string, includeUnpublished bool) (*dto.BlogPostResponse, error) {
	post, err := svc.postgresSvc.GetBlogPost(postID)
	if err != nil {
		return nil, err
	}

	if !post.IsPublished && !includeUnpublished {
		return nil, shared.NewNotFoundError(nil, "Post not found")
	}

	resp := svc.mapPostToResponse(post)
	return &resp, nil
}

func (svc *CommunityService) CreatePost(authorID string, req dto.CreateBlogPostRequest) (*dto.BlogPostResponse, error) {
	kind := req.Kind
	if kind == "" {
		kind = "post"
	}

	post := &model.BlogPost{
		AuthorID: authorID,
		Kind:     kind,
		Title:    req.Title,
		Body:     req.Body,
	}

	created, err := svc.postgresSvc.CreateBlogPost(post)
	if err != nil {
		return nil, err
	}

	resp := svc.mapPostToResponse(created)
	return &resp, nil
}

func (svc *CommunityService) UpdatePost(postID string, req dto.UpdateBlogPostRequest) (*dto.BlogPostResponse, error) {
	post, err := svc.postgresSvc.GetBlogPost(postID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.IsPublished != nil {
		if *req.IsPublished && !post.IsPublished {
			now := time.Now()
			post.PublishedAt = &now
		}
		post.IsPublished = *req.IsPublished
	}

	if err := svc.postgresSvc.UpdateBlogPost(post); err != nil {
		return nil, err
	}

	resp := svc.mapPostToResponse(post)
	return &resp, nil
}

func (svc *CommunityService) DeletePost(postID string) error {
	if _, err := svc.postgresSvc.GetBlogPost(postID); err != nil {
		return err
	}
	return svc.postgresSvc.DeleteBlogPost(postID)
}

// ==================== SUPPORT TICKETS ====================

func (svc *CommunityService) CreateTicket(userID string, req dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	ticket := &model.SupportTicket{
		UserID:  userID,
		Subject: req.Subject,
		Body:    req.Body,
		Status:  shared.TicketStatusOpen,
	}

	created, err := svc.postgresSvc.CreateSupportTicket(ticket)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"ticket_id": created.ID,
		"user_id":   userID,
	}).Info("Support ticket created")

	resp := svc.mapTicketToResponse(created)
	return &resp, nil
}

func (svc *CommunityService) GetUserTickets(userID string) (*dto.TicketCollectionResponse, error) {
	tickets, err := svc.postgresSvc.GetSupportTickets(userID, "")
	if err != nil {
		return nil, err
	}
	return svc.mapTicketCollection(tickets), nil
}

func (svc *CommunityService) GetAllTickets(status string) (*dto.TicketCollectionResponse, error) {
	tickets, err := svc.postgresSvc.GetSupportTickets("", status)
	if err != nil {
		return nil, err
	}
	return svc.mapTicketCollection(tickets), nil
}

func (svc *CommunityService) RespondToTicket(ticketID string, req dto.RespondTicketRequest) (*dto.TicketResponse, error) {
	ticket, err := svc.postgresSvc.GetSupportTicket(ticketID)
	if err != nil {
		return nil, err
	}

	ticket.Response = req.Response
	ticket.Status = req.Status

	if err := svc.postgresSvc.UpdateSupportTicket(ticket); err != nil {
		return nil, err
	}

	resp := svc.mapTicketToResponse(ticket)
	return &resp, nil
}

// ==================== EMAIL CAMPAIGNS ====================

func (svc *CommunityService) CreateCampaign(req dto.CreateCampaignRequest) (*dto.CampaignResponse, error) {
	campaign := &model.EmailCampaign{
		Title:          req.Title,
		Subject:        req.Subject,
		Body:           req.Body,
		TargetRole:     req.TargetRole,
		TargetMinLevel: req.TargetMinLevel,
		Status:         shared.CampaignStatusDraft,
	}

	created, err := svc.postgresSvc.CreateEmailCampaign(campaign)
	if err != nil {
		return nil, err
	}

	resp := svc.mapCampaignToResponse(created)
	return &resp, nil
}

func (svc *CommunityService) GetCampaigns() (*dto.CampaignCollectionResponse, error) {
	campaigns, err := svc.postgresSvc.GetEmailCampaigns()
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		responses = append(responses, svc.mapCampaignToResponse(&campaign))
	}

	return &dto.CampaignCollectionResponse{
		Campaigns: responses,
		Total:     len(responses),
	}, nil
}

// QueueCampaign freezes the recipient count and marks the campaign ready for
// the external delivery system. Draft is the only state it can leave from.
func (svc *CommunityService) QueueCampaign(campaignID string) (*dto.CampaignResponse, error) {
	campaign, err := svc.postgresSvc.GetEmailCampaign(campaignID)
	if err != nil {
		return nil, err
	}

	if campaign.Status != shared.CampaignStatusDraft {
		return nil, shared.NewConflictError(nil, "Campaign has already been queued")
	}

	recipients, err := svc.postgresSvc.CountCampaignRecipients(campaign.TargetRole, campaign.TargetMinLevel)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	campaign.Status = shared.CampaignStatusQueued
	campaign.RecipientCount = int(recipients)
	campaign.QueuedAt = &now

	if err := svc.postgresSvc.UpdateEmailCampaign(campaign); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"campaign_id": campaign.ID,
		"recipients":  campaign.RecipientCount,
	}).Info("Email campaign queued")

	resp := svc.mapCampaignToResponse(campaign)
	return &resp, nil
}

// ==================== HELPERS ====================

func (svc *CommunityService) mapPostToResponse(post *model.BlogPost) dto.BlogPostResponse {
	return dto.BlogPostResponse{
		ID:          post.ID,
		Kind:        post.Kind,
		Title:       post.Title,
		Body:        post.Body,
		CoverURL:    post.CoverURL,
		AuthorID:    post.AuthorID,
		IsPublished: post.IsPublished,
		PublishedAt: post.PublishedAt,
	}
}

func (svc *CommunityService) mapTicketToResponse(ticket *model.SupportTicket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:        ticket.ID,
		UserID:    ticket.UserID,
		Subject:   ticket.Subject,
		Body:      ticket.Body,
		Status:    ticket.Status,
		Response:  ticket.Response,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
}

func (svc *CommunityService) mapTicketCollection(tickets []model.SupportTicket) *dto.TicketCollectionResponse {
	responses := make([]dto.TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		responses = append(responses, svc.mapTicketToResponse(&ticket))
	}
	return &dto.TicketCollectionResponse{
		Tickets: responses,
		Total:   len(responses),
	}
}

func (svc *CommunityService) mapCampaignToResponse(campaign *model.EmailCampaign) dto.CampaignResponse {
	return dto.CampaignResponse{
		ID:             campaign.ID,
		Title:          campaign.Title,
		Subject:        campaign.Subject,
		Body:           campaign.Body,
		TargetRole:     campaign.TargetRole,
		TargetMinLevel: campaign.TargetMinLevel,
		Status:         campaign.Status,
		RecipientCount: campaign.RecipientCount,
		QueuedAt:       campaign.QueuedAt,
	}
}
