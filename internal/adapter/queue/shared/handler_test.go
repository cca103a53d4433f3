package shared_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/queue/shared"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain/mocks"
	obs "github.com/AdityaU3672/recruiterbook-api/internal/observability"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		task domain.EnrichmentTask
		ok   bool
	}{
		{"summary", domain.EnrichmentTask{Kind: domain.TaskSummary, RecruiterID: "r1"}, true},
		{"verify", domain.EnrichmentTask{Kind: domain.TaskVerify, RecruiterID: "r1"}, true},
		{"industry", domain.EnrichmentTask{Kind: domain.TaskIndustry, CompanyID: "c1"}, true},
		{"summary without recruiter", domain.EnrichmentTask{Kind: domain.TaskSummary}, false},
		{"industry without company", domain.EnrichmentTask{Kind: domain.TaskIndustry, RecruiterID: "r1"}, false},
		{"unknown kind", domain.EnrichmentTask{Kind: "rank", RecruiterID: "r1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := shared.Validate(tt.task)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	task := domain.EnrichmentTask{Kind: domain.TaskVerify, RecruiterID: "r1", RequestID: "req-1", EnqueuedAt: time.Unix(1_700_000_000, 0).UTC()}
	b, err := shared.Encode(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"verify","recruiter_id":"r1","request_id":"req-1","enqueued_at":"2023-11-14T22:13:20Z"}`, string(b))

	got, err := shared.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, task, got)

	_, err = shared.Decode([]byte(`{not json`))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = shared.Decode([]byte(`{"kind":"summary"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = shared.Encode(domain.EnrichmentTask{Kind: "bogus"})
	assert.Error(t, err)
}

func TestHandler_PropagatesRequestIDAndDeadline(t *testing.T) {
	next := mocks.NewMockEnrichmentHandler(t)
	task := domain.EnrichmentTask{Kind: domain.TaskSummary, RecruiterID: "r1", RequestID: "req-9"}
	next.On("Handle", mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return hasDeadline && obs.RequestIDFromContext(ctx) == "req-9"
	}), task).Return(nil).Once()

	h := shared.Handler{Next: next, Timeout: time.Second}
	require.NoError(t, h.Handle(context.Background(), task))
}

func TestHandler_ReturnsError(t *testing.T) {
	next := mocks.NewMockEnrichmentHandler(t)
	boom := errors.New("boom")
	task := domain.EnrichmentTask{Kind: domain.TaskIndustry, CompanyID: "c1"}
	next.On("Handle", mock.Anything, task).Return(boom).Once()

	err := shared.Handler{Next: next}.Handle(context.Background(), task)
	assert.ErrorIs(t, err, boom)
}
