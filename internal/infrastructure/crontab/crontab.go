// Package crontab schedules background maintenance work, currently the AI
// product summary backfill.
package crontab

import (
	"context"
	"fmt"
	"time"

	"github.com/mileusna/crontab"

	"github.com/miracle078/adogent/internal/config"
	"github.com/miracle078/adogent/internal/domain/agent"
	"github.com/miracle078/adogent/internal/domain/catalog"
	"github.com/miracle078/adogent/internal/infrastructure/logger"
	"github.com/miracle078/adogent/internal/infrastructure/metrics"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

const (
	DefaultBackfillInterval = 60 // in minutes
	CronJobTimeout          = 10 * time.Minute
)

type Crontab struct {
	ctab      *crontab.Crontab
	catalog   *catalog.Service
	aiService *agent.Service
}

func NewCrontab(catalogService *catalog.Service, aiService *agent.Service) *Crontab {
	return &Crontab{
		ctab:      crontab.New(),
		catalog:   catalogService,
		aiService: aiService,
	}
}

func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()

	cfg := config.GetGlobal()
	if cfg != nil && cfg.SummaryBackfillEnabled {
		// execute once on server start
		c.backfillSummaries(ctx, cfg.SummaryBackfillBatchSize)

		interval := cfg.SummaryBackfillIntervalMinutes
		if interval <= 0 {
			interval = DefaultBackfillInterval
		}

		cronExpr := fmt.Sprintf("*/%d * * * *", interval)
		if interval >= 60 {
			cronExpr = fmt.Sprintf("0 */%d * * *", interval/60)
		}
		if err := c.ctab.AddJob(cronExpr, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
			defer cancel()
			c.backfillSummaries(jobCtx, cfg.SummaryBackfillBatchSize)
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add summary backfill job")
		}
		log.Warn().Msgf("AI summary backfill scheduled: every %d minute(s)", interval)
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

// backfillSummaries writes model-generated marketing copy onto active
// products that have none yet.
func (c *Crontab) backfillSummaries(ctx context.Context, batchSize int) {
	log := logger.GetLogger()

	products, err := c.catalog.ProductsMissingSummaries(ctx, batchSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products for summary backfill")
		return
	}
	if len(products) == 0 {
		return
	}

	for _, product := range products {
		categoryName := ""
		if product.Category != nil {
			categoryName = product.Category.Name
		}
		condition := ""
		if product.Condition != nil {
			condition = string(*product.Condition)
		}
		summary := c.aiService.GenerateProductSummary(ctx, agent.ProductSummaryInput{
			Name:      product.Name,
			Category:  categoryName,
			Price:     product.Price.String(),
			Condition: condition,
		})

		if err := c.catalog.SaveAISummary(ctx, product.PublicID, summary); err != nil {
			log.Error().Err(err).Str("product_id", product.PublicID.String()).Msg("Failed to save AI summary")
			metrics.SummaryBackfillTotal.WithLabelValues("error").Inc()
			continue
		}
		metrics.SummaryBackfillTotal.WithLabelValues("success").Inc()
	}
	log.Info().Int("count", len(products)).Msg("AI summary backfill pass completed")
}
