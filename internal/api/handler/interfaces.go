package handler

import (
	"context"

	"github.com/synful23/wrestling-simulator-sub000/internal/application"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/championship"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/show"
)

// ChampionshipServiceInterface はチャンピオンシップサービスのインターフェース
type ChampionshipServiceInterface interface {
	CreateChampionship(ctx context.Context, input application.CreateChampionshipInput) (*championship.Championship, error)
	GetChampionship(ctx context.Context, id string) (*championship.Championship, error)
	ListChampionships(ctx context.Context, companyID string, limit, offset int) ([]*championship.Championship, error)
	SetHolder(ctx context.Context, input application.SetHolderInput) (*championship.Championship, error)
	RecordDefense(ctx context.Context, input application.RecordDefenseInput) (*championship.Championship, error)
	Vacate(ctx context.Context, id string) (*championship.Championship, error)
	Deactivate(ctx context.Context, id string) (*championship.Championship, error)
	DeleteChampionship(ctx context.Context, id string) (*application.DeleteResult, error)
}

// ShowServiceInterface は大会サービスのインターフェース
type ShowServiceInterface interface {
	CreateShow(ctx context.Context, input application.CreateShowInput) (*show.Show, error)
	GetShow(ctx context.Context, id string) (*show.Show, error)
	ListShows(ctx context.Context, companyID string, limit, offset int) ([]*show.Show, error)
	DeleteShow(ctx context.Context, id string) error

	AddMatch(ctx context.Context, showID string, m show.Match) (*show.Show, error)
	UpdateMatch(ctx context.Context, showID, matchID string, m show.Match) (*show.Show, error)
	RemoveMatch(ctx context.Context, showID, matchID string) (*show.Show, error)
	AddSegment(ctx context.Context, showID string, seg show.Segment) (*show.Show, error)
	UpdateSegment(ctx context.Context, showID, segmentID string, seg show.Segment) (*show.Show, error)
	RemoveSegment(ctx context.Context, showID, segmentID string) (*show.Show, error)

	ScheduleShow(ctx context.Context, id string) (*show.Show, error)
	StartShow(ctx context.Context, id string) (*show.Show, error)
	CompleteShow(ctx context.Context, id string) (*application.CompleteShowResult, error)
	CancelShow(ctx context.Context, id string) (*show.Show, error)
}
