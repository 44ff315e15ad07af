package catalog

import "testing"

func TestModelNameByID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"provider id", "deepseek", "DeepSeek"},
		{"sub-model id", "deepseek-r1-zero", "DeepSeek R1 Zero"},
		{"unknown id", "gpt-9", "Unknown Model"},
		{"empty id", "", "Unknown Model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModelNameByID(tt.id); got != tt.want {
				t.Errorf("ModelNameByID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestParentModelByID(t *testing.T) {
	if m := ParentModelByID("dall-e-3-standard"); m == nil || m.ID != "dall-e-3" {
		t.Fatalf("ParentModelByID(sub) = %v", m)
	}
	if m := ParentModelByID("elevenlabs"); m == nil || m.ID != "elevenlabs" {
		t.Fatalf("ParentModelByID(provider) = %v", m)
	}
	if m := ParentModelByID("nope"); m != nil {
		t.Fatalf("expected nil for unknown id, got %v", m)
	}
}

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry()
	if got := r.ActiveModel().ID; got != "deepseek" {
		t.Errorf("default model = %q", got)
	}
	if got := r.ActiveSubModel().ID; got != "deepseek-v3-base" {
		t.Errorf("default sub-model = %q", got)
	}
}

func TestRegistrySwitchModelResetsSubModel(t *testing.T) {
	r := NewRegistry()
	r.SetActiveSubModel("deepseek-r1-zero")
	if got := r.ActiveSubModel().ID; got != "deepseek-r1-zero" {
		t.Fatalf("sub-model = %q", got)
	}

	r.SetActiveModel("dall-e-3")
	if got := r.ActiveSubModel().ID; got != "dall-e-3-standard" {
		t.Errorf("sub-model after provider switch = %q", got)
	}
}

func TestRegistryIgnoresUnknownIDs(t *testing.T) {
	r := NewRegistry()
	r.SetActiveModel("nope")
	r.SetActiveSubModel("also-nope")
	if got := r.ActiveModel().ID; got != "deepseek" {
		t.Errorf("model = %q", got)
	}
	if got := r.ActiveSubModel().ID; got != "deepseek-v3-base" {
		t.Errorf("sub-model = %q", got)
	}
}
