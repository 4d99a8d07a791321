package api

import "github.com/scoutrun/routescout/provider"

// Model pairs a model name with the provider that serves it.
type Model interface {
	Name() string
	Provider() provider.Provider
}
