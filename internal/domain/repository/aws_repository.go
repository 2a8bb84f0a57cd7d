package repository

import (
	"context"
	"time"

	"github.com/diillson/aws-cost-trends/internal/domain/entity"
)

// AWSRepository defines the interface for AWS API interactions.
type AWSRepository interface {
	// Profile Operations
	GetAWSProfiles() []string
	GetAccountID(ctx context.Context, profile string) (string, error)

	// Cost Operations
	GetCostPeriods(ctx context.Context, profile string, start, end time.Time, tags []string) ([]entity.CostPeriod, error)

	// Budget Operations
	GetBudgets(ctx context.Context, profile string) ([]entity.BudgetInfo, error)

	// Artifact upload
	UploadArtifact(ctx context.Context, profile, bucket, key, path string) error
}
