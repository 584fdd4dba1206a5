package common

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrDatabaseNotFound  = fmt.Errorf("database %w", errdefs.ErrNotFound)
	ErrTableNotFound     = fmt.Errorf("table %w", errdefs.ErrNotFound)
	ErrDatasetNotFound   = fmt.Errorf("dataset %w", errdefs.ErrNotFound)
	ErrSqlaTableNotFound = fmt.Errorf("sqla table %w", errdefs.ErrNotFound)
	ErrInvalidId         = fmt.Errorf("id: %w", errdefs.ErrInvalidArgument)
)
