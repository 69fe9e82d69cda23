package database

import (
	"fmt"
)

type questRepository struct {
	db *DB
}

func NewQuestRepository(db *DB) QuestRepository {
	return &questRepository{db: db}
}

func (r *questRepository) TruncateAll() (int64, error) {
	res, err := r.db.Exec(`DELETE FROM quests`)
	if err != nil {
		return 0, fmt.Errorf("failed to truncate quests: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count truncated quests: %w", err)
	}

	return affected, nil
}

func (r *questRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM quests`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count quests: %w", err)
	}
	return count, nil
}
