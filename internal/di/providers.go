package di

import (
	"babylog/internal/services"
	"babylog/internal/storage"
)

func provideMigrator() services.Migrator {
	return storage.Migrate
}
