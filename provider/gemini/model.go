package gemini

import (
	"sync"

	"github.com/alphadose/haxmap"

	"github.com/scoutrun/routescout/api"
	"github.com/scoutrun/routescout/provider"
)

var modelRegistry = haxmap.New[string, api.Model]()

// Flash returns the gemini-2.0-flash model, the workhorse for the scout
// agents.
func Flash() api.Model {
	return Model("gemini-2.0-flash")
}

// Pro returns the gemini-2.5-pro model.
func Pro() api.Model {
	return Model("gemini-2.5-pro")
}

// Model returns a registered model by name, creating it on first use. The
// API key comes from the GEMINI_API_KEY environment variable; use
// ModelWithKey to pass one explicitly.
func Model(name string) api.Model {
	return ModelWithKey(name, "")
}

// ModelWithKey returns a registered model bound to an explicit API key.
func ModelWithKey(name, apiKey string) api.Model {
	m, _ := modelRegistry.GetOrCompute(name, func() api.Model {
		return &model{
			name:   name,
			apiKey: apiKey,
		}
	})
	return m
}

var _ api.Model = (*model)(nil)

type model struct {
	name   string
	apiKey string

	prov     provider.Provider
	provOnce sync.Once
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Provider() provider.Provider {
	m.provOnce.Do(func() {
		m.prov = New(m.apiKey)
	})
	return m.prov
}
