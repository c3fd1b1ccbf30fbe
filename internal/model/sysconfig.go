package model

// SystemConfig is the singleton branding document, mutated only by admins.
// LogoURL may be a data URI or a drive path.
type SystemConfig struct {
	AppName    string `json:"appName"`
	LogoURL    string `json:"logoUrl"`
	ThemeColor string `json:"themeColor"`
}

// DefaultSystemConfig is served before any admin has saved branding.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		AppName:    "Cloud Drive",
		ThemeColor: "#16A34A",
	}
}
