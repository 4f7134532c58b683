package store

import (
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
)

func reduceUser(s model.Lookup[*model.User], action Action) model.Lookup[*model.User] {
	switch a := action.(type) {
	case UserLoggedIn:
		if a.User == nil {
			return model.Missing[*model.User]()
		}
		return model.Found(a.User)
	case UserLoggedOut:
		return model.Missing[*model.User]()
	case UserTokenInvalidated:
		user, ok := s.Get()
		if !ok {
			return s
		}
		invalid := *user
		invalid.ValidTokenFor = nil
		return model.Found(&invalid)
	}
	return s
}

func reduceOrgs(s OrgsState, action Action) OrgsState {
	switch a := action.(type) {
	case OrgsFetched:
		return OrgsState{Fetched: true, Items: copyMap(a.Orgs)}
	case OrgChanged:
		if a.Org == nil {
			return s
		}
		items := copyMap(s.Items)
		items[a.Org.OrgID] = a.Org
		return OrgsState{Fetched: s.Fetched, Items: items}
	case UserLoggedOut:
		return OrgsState{Items: map[string]*model.Org{}}
	}
	return s
}

func reduceErrors(s []ErrorEntry, action Action) []ErrorEntry {
	switch a := action.(type) {
	case ErrorAdded:
		for _, e := range s {
			if e.ID == a.Entry.ID {
				return s
			}
		}
		return append(append([]ErrorEntry{}, s...), a.Entry)
	case ErrorRemoved:
		out := make([]ErrorEntry, 0, len(s))
		for _, e := range s {
			if e.ID != a.ID {
				out = append(out, e)
			}
		}
		return out
	}
	return s
}

func reduceSocket(s SocketState, action Action) SocketState {
	switch action.(type) {
	case SocketConnected:
		return SocketState{Connected: true}
	case SocketDisconnected:
		return SocketState{Connected: false}
	}
	return s
}

// reduce runs every slice reducer
func reduce(s State, action Action) State {
	return State{
		Products:    reduceProducts(s.Products, action),
		Preflights:  reducePreflights(s.Preflights, action),
		Jobs:        reduceJobs(s.Jobs, action),
		ScratchOrgs: reduceScratchOrgs(s.ScratchOrgs, action),
		User:        reduceUser(s.User, action),
		Orgs:        reduceOrgs(s.Orgs, action),
		Errors:      reduceErrors(s.Errors, action),
		Socket:      reduceSocket(s.Socket, action),
	}
}
