package core

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/subnets/internal/metrics"
	"github.com/edvin/subnets/internal/model"
	"github.com/edvin/subnets/internal/platform"
	"github.com/edvin/subnets/internal/subnet"
)

// CreateProjectInput holds the caller-supplied fields of a new project.
type CreateProjectInput struct {
	Name     string
	Status   string
	Provider string
}

// ProjectPatch lists the fields an update may change. Nil fields are left alone.
type ProjectPatch struct {
	Name     *string
	Status   *string
	Provider *string
}

// ProjectService owns the project collection. Create, Update and Delete run
// their read-allocate-write sequence under a single mutex, so two concurrent
// creates can never be handed the same subnet.
type ProjectService struct {
	store   ProjectStore
	alloc   *subnet.Allocator
	catalog *model.Catalog
	backup  BackupSink
	logger  zerolog.Logger

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

func NewProjectService(store ProjectStore, alloc *subnet.Allocator, catalog *model.Catalog, backup BackupSink, logger zerolog.Logger) *ProjectService {
	return &ProjectService{
		store:   store,
		alloc:   alloc,
		catalog: catalog,
		backup:  backup,
		logger:  logger.With().Str("component", "project-service").Logger(),
		now:     time.Now,
		newID:   platform.NewID,
	}
}

// Catalog returns the status and provider sets the service accepts.
func (s *ProjectService) Catalog() *model.Catalog {
	return s.catalog
}

// Ping checks that the backing store is reachable.
func (s *ProjectService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// List returns every project. The result is never nil.
func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return p, nil
}

// NextSubnet reports the subnet the next created project would receive.
func (s *ProjectService) NextSubnet(ctx context.Context) (string, error) {
	projects, err := s.store.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list projects: %w", err)
	}
	return s.alloc.Next(model.Subnets(projects)), nil
}

// Create validates in, allocates the next subnet and persists the project.
func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput) (*model.Project, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = s.catalog.DefaultStatus()
	}
	if err := s.checkStatus(status); err != nil {
		return nil, err
	}
	if err := s.checkProvider(in.Provider); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if nameTaken(projects, name, "") {
		return nil, ErrDuplicateName
	}

	p := model.Project{
		ID:        s.newID(),
		Name:      name,
		Subnet:    s.alloc.Next(model.Subnets(projects)),
		Status:    status,
		Provider:  in.Provider,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if s.alloc.Exhausted(p.Subnet) {
		s.logger.Warn().Str("subnet", p.Subnet).Int("max_octet", subnet.MaxOctet).
			Msg("allocated subnet is outside the usable /24 range")
	}

	if err := s.store.Insert(ctx, &p); err != nil {
		return nil, fmt.Errorf("create project %q: %w", name, err)
	}

	metrics.SubnetAllocations.Inc()
	metrics.LastAllocatedOctet.Set(float64(s.alloc.Octet(p.Subnet)))
	s.afterWrite(append(projects, p))

	s.logger.Info().Str("project_id", p.ID).Str("name", p.Name).Str("subnet", p.Subnet).Msg("project created")
	return &p, nil
}

// Update merges patch into the project. ID, subnet and creation time are
// never changed.
func (s *ProjectService) Update(ctx context.Context, id string, patch ProjectPatch) (*model.Project, error) {
	var name string
	if patch.Name != nil {
		n, err := normalizeName(*patch.Name)
		if err != nil {
			return nil, err
		}
		name = n
	}
	if patch.Status != nil {
		if err := s.checkStatus(*patch.Status); err != nil {
			return nil, err
		}
	}
	if patch.Provider != nil {
		if err := s.checkProvider(*patch.Provider); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	idx := slices.IndexFunc(projects, func(p model.Project) bool { return p.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("update project %s: %w", id, ErrNotFound)
	}

	updated := projects[idx]
	if patch.Name != nil {
		if nameTaken(projects, name, id) {
			return nil, ErrDuplicateName
		}
		updated.Name = name
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	if patch.Provider != nil {
		updated.Provider = *patch.Provider
	}

	if err := s.store.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}

	next := slices.Clone(projects)
	next[idx] = updated
	s.afterWrite(next)

	s.logger.Info().Str("project_id", id).Str("name", updated.Name).Str("status", updated.Status).Msg("project updated")
	return &updated, nil
}

// Delete removes the project permanently. Its subnet is not handed out again
// unless it was the highest one.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	idx := slices.IndexFunc(projects, func(p model.Project) bool { return p.ID == id })
	if idx < 0 {
		return fmt.Errorf("delete project %s: %w", id, ErrNotFound)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}

	s.afterWrite(slices.Delete(slices.Clone(projects), idx, idx+1))

	s.logger.Info().Str("project_id", id).Str("subnet", projects[idx].Subnet).Msg("project deleted")
	return nil
}

// afterWrite updates gauges and hands the new document to the backup sink.
// Backup problems are logged only.
func (s *ProjectService) afterWrite(projects []model.Project) {
	metrics.Projects.Set(float64(len(projects)))
	if s.backup == nil {
		return
	}

	snapshot, err := json.MarshalIndent(model.Document{Projects: projects}, "", "  ")
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode backup snapshot")
		return
	}
	s.backup.Enqueue(snapshot)
}

func (s *ProjectService) checkStatus(status string) error {
	if !s.catalog.HasStatus(status) {
		return fmt.Errorf("%w %q", ErrInvalidStatus, status)
	}
	return nil
}

func (s *ProjectService) checkProvider(provider string) error {
	if !s.catalog.HasProvider(provider) {
		return fmt.Errorf("%w %q", ErrInvalidProvider, provider)
	}
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

// nameTaken reports whether another project (other than exceptID) already
// uses name, ignoring case and surrounding whitespace.
func nameTaken(projects []model.Project, name, exceptID string) bool {
	for _, p := range projects {
		if p.ID != exceptID && strings.EqualFold(strings.TrimSpace(p.Name), name) {
			return true
		}
	}
	return false
}
