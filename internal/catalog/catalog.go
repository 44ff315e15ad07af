// Package catalog holds the simulated model catalog and tracks which
// sub-model is currently active. Assistant replies are stamped with the
// active sub-model id at the moment they are produced.
package catalog

import "sync"

// SubModel is a selectable variant of a provider model.
type SubModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Model is a simulated provider with one or more sub-models.
type Model struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	IconName  string     `json:"iconName"`
	Plan      string     `json:"plan"`
	SubModels []SubModel `json:"subModels"`
}

// Models is the fixed catalog of simulated providers.
var Models = []Model{
	{
		ID:       "deepseek",
		Name:     "DeepSeek",
		IconName: "command",
		Plan:     "Free",
		SubModels: []SubModel{
			{ID: "deepseek-v3-base", Name: "DeepSeek V3 Base", Description: "General-purpose base model"},
			{ID: "deepseek-r1-zero", Name: "DeepSeek R1 Zero", Description: "Reasoning-tuned variant"},
			{ID: "deepseek-r1-qwen", Name: "DeepSeek R1 Distill Qwen", Description: "Distilled reasoning variant"},
		},
	},
	{
		ID:       "dall-e-3",
		Name:     "DALL·E 3",
		IconName: "gallery-vertical-end",
		Plan:     "Paid",
		SubModels: []SubModel{
			{ID: "dall-e-3-standard", Name: "Standard", Description: "Image generation"},
		},
	},
	{
		ID:       "elevenlabs",
		Name:     "ElevenLabs",
		IconName: "audio-waveform",
		Plan:     "Paid",
		SubModels: []SubModel{
			{ID: "elevenlabs-standard", Name: "Standard", Description: "Speech synthesis"},
		},
	},
}

// ModelNameByID resolves a model or sub-model id to its display name.
// Returns "Unknown Model" when the id matches nothing.
func ModelNameByID(id string) string {
	if id == "" {
		return "Unknown Model"
	}
	for _, m := range Models {
		if m.ID == id {
			return m.Name
		}
		for _, sub := range m.SubModels {
			if sub.ID == id {
				return sub.Name
			}
		}
	}
	return "Unknown Model"
}

// ParentModelByID returns the provider that owns the given model or
// sub-model id, or nil when the id matches nothing.
func ParentModelByID(id string) *Model {
	if id == "" {
		return nil
	}
	for i := range Models {
		m := &Models[i]
		if m.ID == id {
			return m
		}
		for _, sub := range m.SubModels {
			if sub.ID == id {
				return m
			}
		}
	}
	return nil
}

// Registry tracks the active model and sub-model selection.
// All methods are safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	modelID    string
	subModelID string
}

// NewRegistry creates a registry with the catalog's first model and its
// first sub-model active.
func NewRegistry() *Registry {
	return &Registry{
		modelID:    Models[0].ID,
		subModelID: Models[0].SubModels[0].ID,
	}
}

// SetActiveModel switches the active provider. The active sub-model resets
// to the provider's first sub-model. Unknown ids are ignored.
func (r *Registry) SetActiveModel(modelID string) {
	for _, m := range Models {
		if m.ID != modelID {
			continue
		}
		r.mu.Lock()
		r.modelID = m.ID
		if len(m.SubModels) > 0 {
			r.subModelID = m.SubModels[0].ID
		}
		r.mu.Unlock()
		return
	}
}

// SetActiveSubModel switches the active sub-model within the active
// provider. Ids outside the active provider are ignored.
func (r *Registry) SetActiveSubModel(subModelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range Models {
		if m.ID != r.modelID {
			continue
		}
		for _, sub := range m.SubModels {
			if sub.ID == subModelID {
				r.subModelID = subModelID
				return
			}
		}
	}
}

// ActiveModel returns the active provider.
func (r *Registry) ActiveModel() Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m := findModel(r.modelID); m != nil {
		return *m
	}
	return Models[0]
}

// ActiveSubModel returns the active sub-model. Falls back to the active
// provider's first sub-model if the stored id went stale.
func (r *Registry) ActiveSubModel() SubModel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := findModel(r.modelID)
	if m == nil {
		m = &Models[0]
	}
	for _, sub := range m.SubModels {
		if sub.ID == r.subModelID {
			return sub
		}
	}
	return m.SubModels[0]
}

func findModel(id string) *Model {
	for i := range Models {
		if Models[i].ID == id {
			return &Models[i]
		}
	}
	return nil
}
