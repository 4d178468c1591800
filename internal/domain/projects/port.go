package projects

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Create(ctx context.Context, p *Project) error
	// List returns every project, newest first.
	List(ctx context.Context) ([]*Project, error)
	Get(ctx context.Context, id ID) (*Project, error)
	Delete(ctx context.Context, id ID) error
}
