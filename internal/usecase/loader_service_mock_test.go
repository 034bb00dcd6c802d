package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/wicketlabs/scorebook/internal/domain/scorebook"
	"github.com/wicketlabs/scorebook/internal/platform/logging"
)

type mockScorebookStore struct {
	mock.Mock
}

func (m *mockScorebookStore) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockScorebookStore) CommitMatch(ctx context.Context, rows scorebook.MatchRows) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *mockScorebookStore) Counts(ctx context.Context) (scorebook.Counts, error) {
	args := m.Called(ctx)
	return args.Get(0).(scorebook.Counts), args.Error(1)
}

func TestLoaderService_Run_ResetFailureUsingMock(t *testing.T) {
	t.Parallel()

	source := &stubDocumentSource{
		names: []string{"335982.json"},
		docs: map[string]MatchDocument{
			"335982.json": matchDoc("Royal Challengers Bangalore", "Kolkata Knight Riders", ball("R Dravid", "AB Dinda", "W Jaffer")),
		},
	}
	store := &mockScorebookStore{}
	store.On("Reset", mock.Anything).Return(errors.New("permission denied")).Once()
	defer store.AssertExpectations(t)

	svc := NewLoaderService(source, store, LoaderConfig{}, logging.NewNop())
	_, err := svc.Run(t.Context())
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
	store.AssertNotCalled(t, "CommitMatch", mock.Anything, mock.Anything)
}

func TestLoaderService_Run_CountsFailureUsingMock(t *testing.T) {
	t.Parallel()

	source := &stubDocumentSource{
		names: []string{"335982.json"},
		docs: map[string]MatchDocument{
			"335982.json": matchDoc("Royal Challengers Bangalore", "Kolkata Knight Riders", ball("R Dravid", "AB Dinda", "W Jaffer")),
		},
	}
	store := &mockScorebookStore{}
	store.On("Reset", mock.Anything).Return(nil).Once()
	store.On("CommitMatch", mock.Anything, mock.Anything).Return(nil).Once()
	store.On("Counts", mock.Anything).Return(scorebook.Counts{}, errors.New("connection lost")).Once()
	defer store.AssertExpectations(t)

	svc := NewLoaderService(source, store, LoaderConfig{}, logging.NewNop())
	report, err := svc.Run(t.Context())
	if err == nil || !strings.Contains(err.Error(), "count store rows") {
		t.Fatalf("expected a counts failure, got %v", err)
	}
	if report.Loaded != 1 {
		t.Fatalf("expected the document loaded before the count failed, got %d", report.Loaded)
	}
}
