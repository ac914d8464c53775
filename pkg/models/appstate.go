package models

import (
	"github.com/gantapp/gant/config"
)

// AppState is a struct that holds the state of the application
// Use cmd.NewAppState to create a new instance
type AppState struct {
	PublicationStore  PublicationStore
	SubscriptionStore SubscriptionStore
	AnalyticsStore    AnalyticsStore
	Fetcher           Fetcher
	Config            *config.Config
}
