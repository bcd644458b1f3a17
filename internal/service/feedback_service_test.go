package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

func TestSubmitFeedback(t *testing.T) {
	ctx := context.Background()
	repo := &fakeFeedbackRepo{}
	svc := NewFeedbackService(repo, newFakeStudentRepo(enrolled()), zerolog.Nop())
	caller := models.Session{Username: "asha", Role: models.RoleStudent, StudentKey: "PY 9876543210"}

	_, err := svc.SubmitFeedback(ctx, caller, &models.FeedbackRequest{FeedbackText: "  "})
	assert.ErrorIs(t, err, ErrFeedbackRequired)

	_, err = svc.SubmitFeedback(ctx, models.Session{StudentKey: "missing"}, &models.FeedbackRequest{FeedbackText: "hi"})
	assert.ErrorIs(t, err, ErrStudentInfoMissing)

	fb, err := svc.SubmitFeedback(ctx, caller, &models.FeedbackRequest{FeedbackText: " Great class "})
	require.NoError(t, err)
	assert.Equal(t, "Great class", fb.FeedbackText)
	assert.Equal(t, "PY 9876543210", fb.StudentID)
	assert.Equal(t, "PY 9876543210", fb.StudentRecordID)
	assert.Equal(t, "Asha", fb.StudentName)
	assert.Equal(t, "9876543210", fb.StudentNumber)
	assert.Equal(t, pythonBatch.Label(), fb.BatchName)
	assert.Equal(t, "asha", fb.SubmittedBy)
	assert.Len(t, repo.items, 1)
}

func TestListFeedbackEnriches(t *testing.T) {
	repo := &fakeFeedbackRepo{items: []models.Feedback{
		{ID: "1", StudentID: "PY 9876543210", FeedbackText: "old", StudentName: "Unknown"},
		{ID: "2", StudentID: "ghost", FeedbackText: "new"},
	}}
	svc := NewFeedbackService(repo, newFakeStudentRepo(enrolled()), zerolog.Nop())

	list, err := svc.ListFeedback(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "2", list[0].ID)
	assert.Equal(t, "Unknown", list[0].StudentName)
	assert.Equal(t, "Unknown", list[0].BatchName)
	assert.Equal(t, "Unknown", list[0].SubmittedBy)

	assert.Equal(t, "Asha", list[1].StudentName)
	assert.Equal(t, "PY 9876543210", list[1].StudentRecordID)
	assert.Equal(t, pythonBatch.Label(), list[1].BatchName)
}

func TestDeleteFeedback(t *testing.T) {
	ctx := context.Background()
	repo := &fakeFeedbackRepo{items: []models.Feedback{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	svc := NewFeedbackService(repo, newFakeStudentRepo(), zerolog.Nop())

	require.NoError(t, svc.DeleteFeedback(ctx, "1"))
	assert.ErrorIs(t, svc.DeleteFeedback(ctx, "1"), ErrFeedbackNotFound)

	n, err := svc.DeleteAllFeedback(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Empty(t, repo.items)
}
