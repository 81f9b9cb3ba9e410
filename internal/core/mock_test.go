package core

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/edvin/subnets/internal/model"
)

// ---------- Fake store ----------

// memStore is an in-memory ProjectStore. Setting failWrites makes every
// mutation fail without touching the data.
type memStore struct {
	mu         sync.Mutex
	projects   []model.Project
	failWrites error
	failList   error
}

func (m *memStore) List(_ context.Context) ([]model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	return slices.Clone(m.projects), nil
}

func (m *memStore) Get(_ context.Context, id string) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) Insert(_ context.Context, p *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	m.projects = append(m.projects, *p)
	return nil
}

func (m *memStore) Update(_ context.Context, p *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	for i := range m.projects {
		if m.projects[i].ID == p.ID {
			m.projects[i] = *p
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	for i := range m.projects {
		if m.projects[i].ID == id {
			m.projects = slices.Delete(m.projects, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) Ping(_ context.Context) error { return nil }

var errDisk = errors.New("disk full")

// ---------- Mock backup sink ----------

type mockBackup struct {
	mock.Mock
}

func (m *mockBackup) Enqueue(snapshot []byte) {
	m.Called(snapshot)
}
