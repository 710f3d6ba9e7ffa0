package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/synful23/wrestling-simulator-sub000/internal/application"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/championship"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/show"
)

// MockChampionshipService はChampionshipServiceInterfaceのモック
type MockChampionshipService struct {
	mock.Mock
}

func (m *MockChampionshipService) championship(args mock.Arguments) (*championship.Championship, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*championship.Championship), args.Error(1)
}

func (m *MockChampionshipService) CreateChampionship(ctx context.Context, input application.CreateChampionshipInput) (*championship.Championship, error) {
	return m.championship(m.Called(ctx, input))
}

func (m *MockChampionshipService) GetChampionship(ctx context.Context, id string) (*championship.Championship, error) {
	return m.championship(m.Called(ctx, id))
}

func (m *MockChampionshipService) ListChampionships(ctx context.Context, companyID string, limit, offset int) ([]*championship.Championship, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*championship.Championship), args.Error(1)
}

func (m *MockChampionshipService) SetHolder(ctx context.Context, input application.SetHolderInput) (*championship.Championship, error) {
	return m.championship(m.Called(ctx, input))
}

func (m *MockChampionshipService) RecordDefense(ctx context.Context, input application.RecordDefenseInput) (*championship.Championship, error) {
	return m.championship(m.Called(ctx, input))
}

func (m *MockChampionshipService) Vacate(ctx context.Context, id string) (*championship.Championship, error) {
	return m.championship(m.Called(ctx, id))
}

func (m *MockChampionshipService) Deactivate(ctx context.Context, id string) (*championship.Championship, error) {
	return m.championship(m.Called(ctx, id))
}

func (m *MockChampionshipService) DeleteChampionship(ctx context.Context, id string) (*application.DeleteResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.DeleteResult), args.Error(1)
}

// MockShowService はShowServiceInterfaceのモック
type MockShowService struct {
	mock.Mock
}

func (m *MockShowService) show(args mock.Arguments) (*show.Show, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*show.Show), args.Error(1)
}

func (m *MockShowService) CreateShow(ctx context.Context, input application.CreateShowInput) (*show.Show, error) {
	return m.show(m.Called(ctx, input))
}

func (m *MockShowService) GetShow(ctx context.Context, id string) (*show.Show, error) {
	return m.show(m.Called(ctx, id))
}

func (m *MockShowService) ListShows(ctx context.Context, companyID string, limit, offset int) ([]*show.Show, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*show.Show), args.Error(1)
}

func (m *MockShowService) DeleteShow(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockShowService) AddMatch(ctx context.Context, showID string, match show.Match) (*show.Show, error) {
	return m.show(m.Called(ctx, showID, match))
}

func (m *MockShowService) UpdateMatch(ctx context.Context, showID, matchID string, match show.Match) (*show.Show, error) {
	return m.show(m.Called(ctx, showID, matchID, match))
}

func (m *MockShowService) RemoveMatch(ctx context.Context, showID, matchID string) (*show.Show, error) {
	return m.show(m.Called(ctx, showID, matchID))
}

func (m *MockShowService) AddSegment(ctx context.Context, showID string, seg show.Segment) (*show.Show, error) {
	return m.show(m.Called(ctx, showID, seg))
}

func (m *MockShowService) UpdateSegment(ctx context.Context, showID, segmentID string, seg show.Segment) (*show.Show, error) {
	return m.show(m.Called(ctx, showID, segmentID, seg))
}

func (m *MockShowService) RemoveSegment(ctx context.Context, showID, segmentID string) (*show.Show, error) {
	return m.show(m.Called(ctx, showID, segmentID))
}

func (m *MockShowService) ScheduleShow(ctx context.Context, id string) (*show.Show, error) {
	return m.show(m.Called(ctx, id))
}

func (m *MockShowService) StartShow(ctx context.Context, id string) (*show.Show, error) {
	return m.show(m.Called(ctx, id))
}

func (m *MockShowService) CompleteShow(ctx context.Context, id string) (*application.CompleteShowResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.CompleteShowResult), args.Error(1)
}

func (m *MockShowService) CancelShow(ctx context.Context, id string) (*show.Show, error) {
	return m.show(m.Called(ctx, id))
}

var (
	_ ChampionshipServiceInterface = (*MockChampionshipService)(nil)
	_ ShowServiceInterface         = (*MockShowService)(nil)
)
