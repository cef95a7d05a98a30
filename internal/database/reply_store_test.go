package database_test

import (
	"context"
	"testing"

	"github.com/buzzwatch/buzzwatch/internal/database"
	"github.com/buzzwatch/buzzwatch/internal/models"
	"github.com/buzzwatch/buzzwatch/internal/testutil"
)

func TestReplyStoreCreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := database.NewReplyStore(db)
	ctx := context.Background()

	url := "https://reddit.com/r/golang/comments/abc123"
	reply, err := store.Create(ctx, models.CreateReplyParams{
		URL:      url,
		Platform: models.PlatformReddit,
		Content:  "Thanks for sharing, this helped a lot.",
		Tone:     "friendly",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if reply.ID == "" {
		t.Error("expected a generated id")
	}

	replies, err := store.ListByURL(ctx, url)
	if err != nil {
		t.Fatalf("ListByURL failed: %v", err)
	}
	if len(replies) != 1 {
		t.Fatalf("got %d replies, want 1", len(replies))
	}
	if replies[0].Platform != models.PlatformReddit {
		t.Errorf("platform = %q", replies[0].Platform)
	}
	if replies[0].Content != reply.Content {
		t.Errorf("content = %q", replies[0].Content)
	}
}

func TestReplyStoreListByURLEmpty(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := database.NewReplyStore(db)

	replies, err := store.ListByURL(context.Background(), "https://reddit.com/no/replies")
	if err != nil {
		t.Fatalf("ListByURL failed: %v", err)
	}
	if len(replies) != 0 {
		t.Errorf("got %d replies, want 0", len(replies))
	}
}

func TestReplyStoreFeedback(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := database.NewReplyStore(db)
	ctx := context.Background()

	reply, err := store.Create(ctx, models.CreateReplyParams{
		URL:      "https://quora.com/some-question",
		Platform: models.PlatformQuora,
		Content:  "Here is a detailed answer.",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	up, err := store.AddFeedback(ctx, models.CreateFeedbackParams{
		ReplyID: reply.ID,
		Rating:  models.RatingUp,
	})
	if err != nil {
		t.Fatalf("AddFeedback failed: %v", err)
	}
	if up.ID == 0 {
		t.Error("expected a non-zero feedback id")
	}

	if _, err := store.AddFeedback(ctx, models.CreateFeedbackParams{
		ReplyID: reply.ID,
		Rating:  models.RatingDown,
		Comment: "Too generic",
	}); err != nil {
		t.Fatalf("AddFeedback failed: %v", err)
	}

	feedback, err := store.ListFeedback(ctx, reply.ID)
	if err != nil {
		t.Fatalf("ListFeedback failed: %v", err)
	}
	if len(feedback) != 2 {
		t.Fatalf("got %d feedback entries, want 2", len(feedback))
	}
	ratings := map[string]bool{}
	for _, fb := range feedback {
		ratings[fb.Rating] = true
	}
	if !ratings[models.RatingUp] || !ratings[models.RatingDown] {
		t.Errorf("ratings = %v", ratings)
	}
}
