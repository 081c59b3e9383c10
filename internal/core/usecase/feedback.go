package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/a11yrank/a11yrank/internal/core/ports"
)

var errEmptyBatch = errors.New("no URLs submitted")

func errBatchTooLarge(n int) error {
	return fmt.Errorf("%d URLs exceeds the batch limit of %d", n, MaxBatchSize)
}

// FeedbackUseCase turns a completed analysis into narrative advice. It
// reuses the cached result when one exists and analyses on demand when
// it does not.
type FeedbackUseCase struct {
	analyser  ports.PageAnalyser
	generator ports.FeedbackGenerator
	log       *slog.Logger
}

func NewFeedbackUseCase(analyser ports.PageAnalyser, generator ports.FeedbackGenerator, log *slog.Logger) *FeedbackUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &FeedbackUseCase{analyser: analyser, generator: generator, log: log}
}

func (uc *FeedbackUseCase) Feedback(ctx context.Context, rawURL string) (string, error) {
	result, err := uc.analyser.Analyse(ctx, rawURL)
	if err != nil {
		return "", err
	}

	advice, err := uc.generator.Generate(ctx, result)
	if err != nil {
		return "", fmt.Errorf("generate feedback: %w", err)
	}
	uc.log.Info("feedback_generated", "url", result.URL, "grade", result.Grade)
	return advice, nil
}
