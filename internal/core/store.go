package core

import (
	"context"

	"github.com/edvin/subnets/internal/model"
)

// ProjectStore persists projects. Implementations return ErrNotFound for
// unknown IDs and never hand out slices they keep referencing.
type ProjectStore interface {
	List(ctx context.Context) ([]model.Project, error)
	Get(ctx context.Context, id string) (*model.Project, error)
	Insert(ctx context.Context, p *model.Project) error
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// BackupSink receives a JSON snapshot of the full document after each write.
type BackupSink interface {
	Enqueue(snapshot []byte)
}
