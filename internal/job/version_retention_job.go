package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/inkboard/inkboard/internal/service"
)

// VersionRetentionJob trims each board's stored snapshot history down to the
// configured cap.
type VersionRetentionJob struct {
	boards *service.BoardService
}

func NewVersionRetentionJob(boards *service.BoardService) *VersionRetentionJob {
	return &VersionRetentionJob{boards: boards}
}

func (j *VersionRetentionJob) Name() string {
	return "version_retention"
}

func (j *VersionRetentionJob) Run(ctx context.Context) error {
	if j.boards == nil {
		return nil
	}
	pruned, err := j.boards.PruneVersions(ctx)
	if err != nil {
		return err
	}
	if pruned > 0 {
		logutil.GetLogger(ctx).Info("pruned board versions", zap.Int64("count", pruned))
	}
	return nil
}
