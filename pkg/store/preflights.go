package store

import (
	"time"

	"github.com/metadeploy/metadeploy-sdk/pkg/model"
)

func reducePreflights(s map[string]model.Lookup[*model.Preflight], action Action) map[string]model.Lookup[*model.Preflight] {
	switch a := action.(type) {
	case PreflightFetched:
		if a.Preflight == nil {
			// a push may have delivered a preflight the fetch did not see
			if current, ok := s[a.PlanID].Get(); ok && !sentAfter(a.RequestedAt, current.EditedAt) {
				return s
			}
			return withLookup(s, a.PlanID, model.Missing[*model.Preflight]())
		}
		return mergePreflight(s, a.Preflight)
	case PreflightStarted:
		return mergePreflight(s, a.Preflight)
	case PreflightCompleted:
		return mergePreflight(s, a.Preflight)
	case PreflightFailed:
		return mergePreflight(s, a.Preflight)
	case PreflightCanceled:
		return mergePreflight(s, a.Preflight)
	case PreflightInvalidated:
		invalid := *a.Preflight
		invalid.IsValid = false
		invalid.IsReady = false
		return mergePreflight(s, &invalid)
	case UserLoggedOut:
		return map[string]model.Lookup[*model.Preflight]{}
	}
	return s
}

// mergePreflight stores the preflight under its plan unless a newer snapshot is known
func mergePreflight(s map[string]model.Lookup[*model.Preflight], preflight *model.Preflight) map[string]model.Lookup[*model.Preflight] {
	if preflight == nil {
		return s
	}
	if current, ok := s[preflight.Plan].Get(); ok && !preflight.NewerThan(current) {
		return s
	}
	return withLookup(s, preflight.Plan, model.Found(preflight))
}

// sentAfter - a fetch sent after the last edit saw that edit
func sentAfter(requestedAt, editedAt time.Time) bool {
	return !requestedAt.IsZero() && requestedAt.After(editedAt)
}

func withLookup[T any](s map[string]model.Lookup[T], key string, value model.Lookup[T]) map[string]model.Lookup[T] {
	out := copyMap(s)
	out[key] = value
	return out
}
