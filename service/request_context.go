package service

import (
	"github.com/boyuanitsm/fort/models"
)

// RequestContext carries the tenant app resolved for the current request into
// the service layer. Passing it explicitly (instead of reading a global
// request holder) keeps services callable from any execution context.
//
// A nil RequestContext or a nil app means the caller is the admin console
// managing entities across apps; services then trust the AppID already set on
// the entity.
type RequestContext struct {
	app *models.SecurityApp
}

// NewRequestContext creates a RequestContext for one resolved app. app may be
// nil for admin calls.
func NewRequestContext(app *models.SecurityApp) *RequestContext {
	return &RequestContext{app: app}
}

// CurrentApp returns the resolved tenant app, or nil. Safe on a nil receiver.
func (rc *RequestContext) CurrentApp() *models.SecurityApp {
	if rc == nil {
		return nil
	}
	return rc.app
}
