package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Broadcaster struct {
	mock.Mock
}

func (m *Broadcaster) BroadcastIdeasChanged(ctx context.Context) {
	m.Called(ctx)
}
