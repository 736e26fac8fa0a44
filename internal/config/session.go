package config

import "time"

// SessionConfig содержит настройки веб-сессий.
type SessionConfig struct {
	TTL          string `yaml:"ttl" env:"NOTES_SESSION_TTL" env-default:"168h"`
	CookieName   string `yaml:"cookie_name" env:"NOTES_SESSION_COOKIE_NAME" env-default:"session_id"`
	CookieSecure bool   `yaml:"cookie_secure" env:"NOTES_SESSION_COOKIE_SECURE" env-default:"false"`
}

// GetTTL возвращает время жизни сессии.
func (s *SessionConfig) GetTTL() time.Duration {
	duration, err := time.ParseDuration(s.TTL)
	if err != nil {
		return 168 * time.Hour
	}
	return duration
}
