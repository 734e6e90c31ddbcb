package mocks

import (
	"context"

	"github.com/amirasaad/bankdemo/pkg/domain/events"
	"github.com/amirasaad/bankdemo/pkg/eventbus"
	"github.com/stretchr/testify/mock"
)

// MockBus is a mock of eventbus.Bus.
type MockBus struct {
	mock.Mock
}

// NewMockBus creates a mock whose expectations are asserted on cleanup.
func NewMockBus(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBus {
	m := &MockBus{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBus) Emit(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var _ eventbus.Bus = (*MockBus)(nil)
