package domain

// Config mirrors ~/.gcaltool/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Server              ServerSettings    `yaml:"server"`
	Google              GoogleSettings    `yaml:"google"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	Listen          string   `yaml:"listen"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	StaticDir       string   `yaml:"static_dir"`
	SessionTTLHours int      `yaml:"session_ttl_hours"`
}

// GoogleSettings configures the OAuth client and target calendar.
type GoogleSettings struct {
	ClientIDEnvVar     string `yaml:"client_id_env_var"`
	ClientSecretEnvVar string `yaml:"client_secret_env_var"`
	RedirectURL        string `yaml:"redirect_url"`
	CalendarID         string `yaml:"calendar_id"`
}

// Preferences captures operator-level toggles.
type Preferences struct {
	DefaultModel      string   `yaml:"default_model"`
	FallbackModels    []string `yaml:"fallback_models"`
	PendingTTLSeconds int      `yaml:"pending_ttl_seconds"`
}

// ModelDefinition describes one language-capability configuration declared
// in the config file.
type ModelDefinition struct {
	Name       string `yaml:"name"`
	Endpoint   string `yaml:"endpoint"`
	AuthEnvVar string `yaml:"auth_env_var"`
	ModelID    string `yaml:"model_id"`
	MaxTokens  int    `yaml:"max_tokens"`
}

// FindModel looks a model definition up by name.
func (c Config) FindModel(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// CandidateModels returns the ordered, de-duplicated list of model
// configurations the resolver tries in sequence: the default model first,
// then each configured fallback. Names that match no definition are skipped.
func (c Config) CandidateModels() []ModelDefinition {
	candidates := make([]ModelDefinition, 0, 1+len(c.Preferences.FallbackModels))
	seen := map[string]bool{}

	primary := c.Preferences.DefaultModel
	if primary == "" && len(c.Models) > 0 {
		primary = c.Models[0].Name
	}
	if model, found := c.FindModel(primary); found {
		candidates = append(candidates, model)
		seen[model.Name] = true
	}

	for _, name := range c.Preferences.FallbackModels {
		if seen[name] {
			continue
		}
		if model, found := c.FindModel(name); found {
			candidates = append(candidates, model)
			seen[name] = true
		}
	}
	return candidates
}
