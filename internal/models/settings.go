package models

// GlobalSettings is the single application-wide settings row: the active AI
// provider configuration plus the global business context fed to the agent.
type GlobalSettings struct {
	ID                  string `json:"id"`
	Provider            string `json:"provider"`
	APIKey              string `json:"apiKey"`
	Model               string `json:"model"`
	BaseURL             string `json:"baseUrl"`
	BusinessDescription string `json:"businessDescription"`
	BusinessGoal        string `json:"businessGoal"`
	BusinessBackground  string `json:"businessBackground"`
}

type UpdateSettingsRequest struct {
	Provider            *string `json:"provider"`
	APIKey              *string `json:"apiKey"`
	Model               *string `json:"model"`
	BaseURL             *string `json:"baseUrl"`
	BusinessDescription *string `json:"businessDescription"`
	BusinessGoal        *string `json:"businessGoal"`
	BusinessBackground  *string `json:"businessBackground"`
}
