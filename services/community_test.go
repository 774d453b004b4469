package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebooto/rebooto_api/dto"
	"github.com/rebooto/rebooto_api/shared"
)

func newCommunityService(pg *PostgresService) *CommunityService {
	return &CommunityService{postgresSvc: pg}
}

func TestQueueCampaignFreezesRecipients(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newCommunityService(pg)

	for i := 0; i < 3; i++ {
		createTestUser(t, pg)
	}

	campaign, err := svc.CreateCampaign(dto.CreateCampaignRequest{
		Title:   "Patch Tuesday",
		Subject: "New lessons this week",
		Body:    "Come see what changed.",
	})
	require.NoError(t, err)
	assert.Equal(t, shared.CampaignStatusDraft, campaign.Status)
	assert.Zero(t, campaign.RecipientCount)

	queued, err := svc.QueueCampaign(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.CampaignStatusQueued, queued.Status)
	assert.Equal(t, 3, queued.RecipientCount)
	assert.NotNil(t, queued.QueuedAt)

	// A new signup after queueing does not change the frozen count
	createTestUser(t, pg)
	campaigns, err := svc.GetCampaigns()
	require.NoError(t, err)
	require.Len(t, campaigns.Campaigns, 1)
	assert.Equal(t, 3, campaigns.Campaigns[0].RecipientCount)
}

func TestQueueCampaignOnlyLeavesDraft(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newCommunityService(pg)

	campaign, err := svc.CreateCampaign(dto.CreateCampaignRequest{
		Title:   "One Shot",
		Subject: "Only once",
		Body:    "Queueing twice must fail.",
	})
	require.NoError(t, err)

	_, err = svc.QueueCampaign(campaign.ID)
	require.NoError(t, err)

	_, err = svc.QueueCampaign(campaign.ID)
	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))
}

func TestTicketLifecycle(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newCommunityService(pg)

	user := createTestUser(t, pg)

	ticket, err := svc.CreateTicket(user.ID, dto.CreateTicketRequest{
		Subject: "Printer on fire",
		Body:    "It is literally on fire.",
	})
	require.NoError(t, err)
	assert.Equal(t, shared.TicketStatusOpen, ticket.Status)

	updated, err := svc.RespondToTicket(ticket.ID, dto.RespondTicketRequest{
		Response: "Extinguisher dispatched.",
		Status:   shared.TicketStatusClosed,
	})
	require.NoError(t, err)
	assert.Equal(t, shared.TicketStatusClosed, updated.Status)
	assert.Equal(t, "Extinguisher dispatched.", updated.Response)

	mine, err := svc.GetUserTickets(user.ID)
	require.NoError(t, err)
	require.Len(t, mine.Tickets, 1)
	assert.Equal(t, ticket.ID, mine.Tickets[0].ID)
}

func TestBlogPostPublishing(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newCommunityService(pg)

	author := createTestUser(t, pg)

	post, err := svc.CreatePost(author.ID, dto.CreateBlogPostRequest{
		Title: "Welcome to Rebooto",
		Body:  "We teach IT support by doing.",
	})
	require.NoError(t, err)
	assert.False(t, post.IsPublished)
	assert.Nil(t, post.PublishedAt)

	draft, err := svc.CreatePost(author.ID, dto.CreateBlogPostRequest{
		Title: "Still cooking",
		Body:  "Not ready yet.",
	})
	require.NoError(t, err)

	publish := true
	updated, err := svc.UpdatePost(post.ID, dto.UpdateBlogPostRequest{IsPublished: &publish})
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)
	assert.NotNil(t, updated.PublishedAt)

	// Drafts stay invisible to the public listing
	public, err := svc.GetPosts("", false)
	require.NoError(t, err)
	require.Equal(t, 1, public.Total)
	assert.Equal(t, post.ID, public.Posts[0].ID)

	_, err = svc.GetPost(draft.ID, false)
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}
