package pipeline

import (
	"context"
	"fmt"

	"github.com/backmassage/quiltpair/internal/config"
	"github.com/backmassage/quiltpair/internal/imagestats"
	"github.com/backmassage/quiltpair/internal/logging"
)

// CollectStats runs stats mode: header-decode every image under the image
// directory and write the summary to cfg.StatsOut.
func CollectStats(ctx context.Context, cfg *config.Config, log *logging.Logger) (*imagestats.Stats, error) {
	dir, err := openImageDir(cfg.ImageDir, log)
	if err != nil {
		return nil, err
	}
	paths := dir.Select(imagestats.IsDecodable)
	log.Info("Found %d image files in %s", len(paths), dir.Root)
	if len(paths) == 0 {
		log.Warn("No images to measure")
	}

	s, err := imagestats.Collect(ctx, paths, cfg.Workers, func(p string, err error) {
		log.Warn("%v", err)
	})
	if err != nil {
		return nil, err
	}
	if s.Count == 0 {
		log.Warn("No valid images were processed")
	}
	if err := s.WriteJSON(cfg.StatsOut); err != nil {
		return s, fmt.Errorf("stats output: %w", err)
	}

	log.Success("Results saved to %s", cfg.StatsOut)
	log.Info("Images measured: %d (%d unreadable)", s.Count, s.Failed)
	if s.Count > 0 {
		log.Info("Width  - min %d, max %d, mean %.2f, median %.2f, std %.2f",
			s.Width.Min, s.Width.Max, s.Width.Mean, s.Width.Median, s.Width.Std)
		log.Info("Height - min %d, max %d, mean %.2f, median %.2f, std %.2f",
			s.Height.Min, s.Height.Max, s.Height.Mean, s.Height.Median, s.Height.Std)
	}
	log.Info("Processing time: %.2f seconds", s.ElapsedSeconds)
	return s, nil
}
