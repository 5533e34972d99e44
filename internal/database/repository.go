package database

import "database/sql"

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding; every
// method name is unique across the parts so all of them promote.
type Repository struct {
	*UserRepo
	*ProjectRepo
	*IssueRepo
	*CommentRepo
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		UserRepo:    &UserRepo{db: db},
		ProjectRepo: &ProjectRepo{db: db},
		IssueRepo:   &IssueRepo{db: db},
		CommentRepo: &CommentRepo{db: db},
	}
}
