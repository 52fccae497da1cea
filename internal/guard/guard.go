// Package guard decides whether a view may render for the current
// session. Guards are pure functions of a session snapshot and the
// static route policy; they hold no state of their own.
package guard

import (
	"wayfare/internal/models"
	"wayfare/internal/session"
)

type Action int

const (
	// ActionRender means the guarded subtree may show.
	ActionRender Action = iota
	// ActionWait means the session is still initializing; show a
	// loading indicator and keep children suspended.
	ActionWait
	// ActionRedirect sends the user to Target instead.
	ActionRedirect
)

// Decision is the outcome of a gate check. From carries the originally
// requested location so login can send the user back afterwards.
type Decision struct {
	Action Action
	Target string
	From   string
}

// Route names shared by the front ends.
const (
	RouteHome             = "/"
	RouteLogin            = "/login"
	RouteTouristDashboard = "/tourist/dashboard"
	RouteHostDashboard    = "/host/dashboard"
	RouteDriverDashboard  = "/driver/dashboard"
)

// Landing returns the role's own landing view, or the generic one for
// roles the app does not recognize.
func Landing(role string) string {
	switch role {
	case models.RoleTourist:
		return RouteTouristDashboard
	case models.RoleHost:
		return RouteHostDashboard
	case models.RoleDriver:
		return RouteDriverDashboard
	}
	return RouteHome
}

// Auth gates a subtree on authentication state. requireAuth=false marks
// views like login and register that authenticated users get bounced
// away from.
func Auth(snap session.Snapshot, requireAuth bool, from string) Decision {
	if snap.Status == session.StatusInitializing {
		return Decision{Action: ActionWait}
	}

	if requireAuth && !snap.Authenticated() {
		return Decision{Action: ActionRedirect, Target: RouteLogin, From: from}
	}

	if !requireAuth && snap.Authenticated() {
		role := ""
		if snap.User != nil {
			role = snap.User.Role
		}
		return Decision{Action: ActionRedirect, Target: Landing(role)}
	}

	return Decision{Action: ActionRender}
}

// Role permits rendering only when the user's role is whitelisted.
// A mismatched role lands on its own dashboard, not the guarded one.
func Role(snap session.Snapshot, allowed ...string) Decision {
	if snap.Status == session.StatusInitializing {
		return Decision{Action: ActionWait}
	}

	if snap.User == nil {
		return Decision{Action: ActionRedirect, Target: RouteLogin}
	}

	if !snap.HasAnyRole(allowed...) {
		return Decision{Action: ActionRedirect, Target: Landing(snap.User.Role)}
	}

	return Decision{Action: ActionRender}
}
