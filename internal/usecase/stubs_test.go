package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/repository"
)

// In-memory repository stubs shared across usecase unit tests.

type stubUserRepo struct {
	users map[string]domain.User // keyed by id
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	repo := &stubUserRepo{users: make(map[string]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *stubUserRepo) Create(_ context.Context, user domain.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrConflict
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		copied := user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByResetTokenHash(_ context.Context, tokenHash string) (*domain.User, error) {
	for _, user := range r.users {
		if user.ResetTokenHash != nil && *user.ResetTokenHash == tokenHash {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) Update(_ context.Context, id string, update port.UserUpdate) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Name != nil {
		user.Name = update.Name
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.Status != nil {
		user.Status = *update.Status
	}
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = changedAt
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.ResetTokenHash = &tokenHash
	user.ResetTokenExpires = &expiresAt
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) ClearResetToken(_ context.Context, id string) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.ResetTokenHash = nil
	user.ResetTokenExpires = nil
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, _ port.UserFilter) ([]domain.User, error) {
	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *stubUserRepo) Count(_ context.Context, _ port.UserFilter) (int, error) {
	return len(r.users), nil
}

type stubSessionRepo struct {
	sessions map[string]domain.Session // keyed by token
	users    *stubUserRepo
}

func newStubSessionRepo(users *stubUserRepo) *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]domain.Session), users: users}
}

func (r *stubSessionRepo) Create(_ context.Context, session domain.Session) error {
	r.sessions[session.Token] = session
	return nil
}

func (r *stubSessionRepo) GetWithUser(ctx context.Context, token string) (*domain.SessionWithUser, error) {
	session, ok := r.sessions[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user, err := r.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.SessionWithUser{Session: session, User: *user}, nil
}

func (r *stubSessionRepo) Delete(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *stubSessionRepo) DeleteAllForUser(_ context.Context, userID string) (int, error) {
	removed := 0
	for token, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed, nil
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context, before time.Time) (int, error) {
	removed := 0
	for token, session := range r.sessions {
		if session.ExpiresAt.Before(before) {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed, nil
}

type stubAccountRepo struct {
	accounts map[string]domain.Account // keyed by provider + "/" + providerAccountID
}

func newStubAccountRepo(accounts ...domain.Account) *stubAccountRepo {
	repo := &stubAccountRepo{accounts: make(map[string]domain.Account)}
	for _, account := range accounts {
		repo.accounts[account.Provider+"/"+account.ProviderAccountID] = account
	}
	return repo
}

func (r *stubAccountRepo) Create(_ context.Context, account domain.Account) error {
	key := account.Provider + "/" + account.ProviderAccountID
	if _, ok := r.accounts[key]; ok {
		return repository.ErrConflict
	}
	r.accounts[key] = account
	return nil
}

func (r *stubAccountRepo) GetByProviderAccount(_ context.Context, provider, providerAccountID string) (*domain.Account, error) {
	if account, ok := r.accounts[provider+"/"+providerAccountID]; ok {
		copied := account
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubAccountRepo) ListByUser(_ context.Context, userID string) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0)
	for _, account := range r.accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (r *stubAccountRepo) DeleteByUser(_ context.Context, userID string) (int, error) {
	removed := 0
	for key, account := range r.accounts {
		if account.UserID == userID {
			delete(r.accounts, key)
			removed++
		}
	}
	return removed, nil
}

type stubPostRepo struct {
	posts map[string]domain.Post // keyed by id
}

func newStubPostRepo(posts ...domain.Post) *stubPostRepo {
	repo := &stubPostRepo{posts: make(map[string]domain.Post)}
	for _, post := range posts {
		repo.posts[post.ID] = post
	}
	return repo
}

func (r *stubPostRepo) Create(_ context.Context, post domain.Post) error {
	for _, existing := range r.posts {
		if existing.Slug == post.Slug {
			return repository.ErrConflict
		}
	}
	r.posts[post.ID] = post
	return nil
}

func (r *stubPostRepo) GetByID(_ context.Context, id string) (*domain.Post, error) {
	if post, ok := r.posts[id]; ok {
		copied := post
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubPostRepo) GetBySlug(_ context.Context, slug string) (*domain.Post, error) {
	for _, post := range r.posts {
		if post.Slug == slug {
			copied := post
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubPostRepo) Update(_ context.Context, id string, update port.PostUpdate) error {
	post, ok := r.posts[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Slug != nil {
		for otherID, other := range r.posts {
			if otherID != id && other.Slug == *update.Slug {
				return repository.ErrConflict
			}
		}
		post.Slug = *update.Slug
	}
	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Excerpt != nil {
		post.Excerpt = update.Excerpt
	}
	if update.Content != nil {
		post.Content = *update.Content
	}
	if update.Locale != nil {
		post.Locale = *update.Locale
	}
	if update.Published != nil {
		post.Published = *update.Published
		if *update.Published && post.PublishedAt == nil {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
	}
	r.posts[id] = post
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) List(_ context.Context, filter port.PostFilter) ([]domain.Post, error) {
	posts := make([]domain.Post, 0, len(r.posts))
	for _, post := range r.posts {
		if filter.PublishedOnly && !post.Published {
			continue
		}
		if filter.Locale != "" && post.Locale != filter.Locale {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *stubPostRepo) Count(ctx context.Context, filter port.PostFilter) (int, error) {
	posts, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(posts), nil
}

type stubMessageRepo struct {
	messages map[string]domain.ContactMessage // keyed by id
}

func newStubMessageRepo(messages ...domain.ContactMessage) *stubMessageRepo {
	repo := &stubMessageRepo{messages: make(map[string]domain.ContactMessage)}
	for _, message := range messages {
		repo.messages[message.ID] = message
	}
	return repo
}

func (r *stubMessageRepo) Create(_ context.Context, message domain.ContactMessage) error {
	r.messages[message.ID] = message
	return nil
}

func (r *stubMessageRepo) GetByID(_ context.Context, id string) (*domain.ContactMessage, error) {
	if message, ok := r.messages[id]; ok {
		copied := message
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubMessageRepo) MarkRead(_ context.Context, id string) error {
	message, ok := r.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	message.Read = true
	r.messages[id] = message
	return nil
}

func (r *stubMessageRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.messages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.messages, id)
	return nil
}

func (r *stubMessageRepo) List(_ context.Context, filter port.MessageFilter) ([]domain.ContactMessage, error) {
	messages := make([]domain.ContactMessage, 0, len(r.messages))
	for _, message := range r.messages {
		if filter.UnreadOnly && message.Read {
			continue
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (r *stubMessageRepo) Count(ctx context.Context, filter port.MessageFilter) (int, error) {
	messages, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(messages), nil
}

type stubSettingsRepo struct {
	settings domain.SiteSettings
}

func (r *stubSettingsRepo) Get(context.Context) (domain.SiteSettings, error) {
	return r.settings, nil
}

func (r *stubSettingsRepo) Update(_ context.Context, update port.SettingsUpdate) (domain.SiteSettings, error) {
	if update.RegistrationEnabled != nil {
		r.settings.RegistrationEnabled = *update.RegistrationEnabled
	}
	if update.OAuthEnabled != nil {
		r.settings.OAuthEnabled = *update.OAuthEnabled
	}
	if update.DefaultLocale != nil {
		r.settings.DefaultLocale = *update.DefaultLocale
	}
	return r.settings, nil
}

type recordingPublisher struct {
	registered []domain.UserRegisteredEvent
	loggedIn   []domain.UserLoggedInEvent
	pwChanged  []domain.PasswordChangedEvent
	contact    []domain.ContactMessageReceivedEvent
}

func (p *recordingPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.registered = append(p.registered, event)
	return nil
}

func (p *recordingPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	p.loggedIn = append(p.loggedIn, event)
	return nil
}

func (p *recordingPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.pwChanged = append(p.pwChanged, event)
	return nil
}

func (p *recordingPublisher) PublishContactMessageReceived(_ context.Context, event domain.ContactMessageReceivedEvent) error {
	p.contact = append(p.contact, event)
	return nil
}

type stubGeoIP struct {
	country *string
}

func (g *stubGeoIP) CountryCode(context.Context, string) *string {
	return g.country
}

type stubProvider struct {
	name    string
	profile *domain.OAuthProfile
	err     error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) AuthURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (p *stubProvider) Profile(context.Context, string) (*domain.OAuthProfile, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}

type stubRegistry struct {
	providers map[string]port.OAuthProvider
}

func newStubRegistry(providers ...port.OAuthProvider) *stubRegistry {
	registry := &stubRegistry{providers: make(map[string]port.OAuthProvider)}
	for _, provider := range providers {
		registry.providers[provider.Name()] = provider
	}
	return registry
}

func (r *stubRegistry) Provider(name string) (port.OAuthProvider, error) {
	if provider, ok := r.providers[name]; ok {
		return provider, nil
	}
	return nil, errors.New("provider not configured")
}

func (r *stubRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
