package service

import "github.com/vedran77/jobly/internal/domain"

// ApplicationNotifier publishes application changes to live subscribers.
type ApplicationNotifier interface {
	NotifyApplicationCreated(app domain.Application)
	NotifyApplicationUpdated(app domain.Application)
}

// TokenIssuer signs a bearer token for a user.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}
