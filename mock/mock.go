// Package mock provides testify mocks for the service interfaces.
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quantonganh/prefcenter"
)

type SubscriberService struct {
	mock.Mock
}

func (m *SubscriberService) Confirm(ctx context.Context, token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *SubscriberService) User(ctx context.Context, token string) (*prefcenter.Subscriber, error) {
	args := m.Called(token)
	user, _ := args.Get(0).(*prefcenter.Subscriber)
	return user, args.Error(1)
}

func (m *SubscriberService) UpdateUser(ctx context.Context, token string, update prefcenter.UserUpdate) error {
	args := m.Called(token, update)
	return args.Error(0)
}

func (m *SubscriberService) Unsubscribe(ctx context.Context, token, email string, optout bool) error {
	args := m.Called(token, email, optout)
	return args.Error(0)
}

func (m *SubscriberService) Subscribe(ctx context.Context, email, newsletterID string, opts prefcenter.SubscribeOptions) error {
	args := m.Called(email, newsletterID, opts)
	return args.Error(0)
}

func (m *SubscriberService) SendRecoveryMessage(ctx context.Context, email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func (m *SubscriberService) CustomUnsubReason(ctx context.Context, token, reason string) error {
	args := m.Called(token, reason)
	return args.Error(0)
}

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) Newsletters(ctx context.Context) (map[string]prefcenter.Newsletter, error) {
	args := m.Called()
	catalog, _ := args.Get(0).(map[string]prefcenter.Newsletter)
	return catalog, args.Error(1)
}
