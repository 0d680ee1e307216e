package config

const (
	DefaultDatabasePath   = "./readease.db"
	DefaultCatalogBaseURL = "https://www.googleapis.com/books/v1"
)
