package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users    *UserRepository
	Accounts *AccountRepository
	Sessions *SessionRepository
	Posts    *PostRepository
	Messages *MessageRepository
	Settings *SettingsRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(pool),
		Accounts: NewAccountRepository(pool),
		Sessions: NewSessionRepository(pool),
		Posts:    NewPostRepository(pool),
		Messages: NewMessageRepository(pool),
		Settings: NewSettingsRepository(pool),
	}
}
