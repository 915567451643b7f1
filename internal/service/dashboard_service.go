package service

import (
	"context"

	"go-market-sales/internal/model"
	"go-market-sales/internal/repository"

	"github.com/sirupsen/logrus"
)

type DashboardService interface {
	GetSalesStats(ctx context.Context) (*model.SalesStats, error)
	CheckHealth(ctx context.Context) error
}

type dashboardService struct {
	txRepo repository.TransactionRepository
	log    logrus.FieldLogger
}

func NewDashboardService(txRepo repository.TransactionRepository, log logrus.FieldLogger) DashboardService {
	return &dashboardService{txRepo: txRepo, log: log}
}

func (s *dashboardService) GetSalesStats(ctx context.Context) (*model.SalesStats, error) {
	var stats *model.SalesStats
	err := s.txRepo.WithConnection(ctx, func(repo repository.TransactionRepository) error {
		var err error
		stats, err = repo.GetSalesStats(ctx)
		return err
	})
	if err != nil {
		return nil, connectionError(s.log, "GetSalesStats", err)
	}
	return stats, nil
}

func (s *dashboardService) CheckHealth(ctx context.Context) error {
	err := s.txRepo.WithConnection(ctx, func(repo repository.TransactionRepository) error {
		return repo.Ping(ctx)
	})
	if err != nil {
		return connectionError(s.log, "CheckHealth", err)
	}
	return nil
}
