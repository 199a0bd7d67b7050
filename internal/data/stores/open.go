package stores

import (
	"fmt"

	"github.com/colonyops/jobcheck/internal/data/db"
	"github.com/rs/zerolog/log"
)

// OpenDB opens the database in dataDir. A corrupted file is moved aside and
// replaced by an empty database.
func OpenDB(dataDir string, opts db.OpenOptions) (*db.DB, error) {
	database, err := db.Open(dataDir, opts)
	if err == nil {
		return database, nil
	}
	if !IsCorruptionError(err) {
		return nil, err
	}

	backup, recoverErr := RecoverFromCorruption(dataDir)
	if recoverErr != nil {
		return nil, fmt.Errorf("%w (recovery failed: %w)", err, recoverErr)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("database was corrupt, starting with an empty store")

	return db.Open(dataDir, opts)
}
