package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"socialfeed/internal/config"
	"socialfeed/internal/model"
	redisclient "socialfeed/internal/redis"
	"socialfeed/internal/repository"
)

// Provider is the identity collaborator: account creation, session
// sign-in/out, profile update, and a push-style stream of "current user
// changed" notifications.
type Provider interface {
	CreateAccount(ctx context.Context, email, password string) (*model.SessionUser, error)
	SignIn(ctx context.Context, email, password string) (*model.SessionUser, error)
	SignOut(ctx context.Context) error
	UpdateProfile(ctx context.Context, displayName string) error

	// Changes delivers the current user on subscription start and on every
	// session change, including changes made out-of-band by another process
	// holding the same session.
	Changes() <-chan *model.SessionUser
}

// AccountProvider implements Provider on the accounts collection, with the
// session recorded as a signed token in Redis so it survives restarts.
// Session changes are broadcast over a Redis channel; other processes pick
// them up and re-emit on their own Changes stream.
type AccountProvider struct {
	accounts repository.AccountRepository
	rdb      *redisclient.Client

	secret string
	maxAge int

	// instanceID keeps a process from reacting to its own broadcasts; local
	// changes are already emitted directly.
	instanceID string
	sessionKey string
	eventsChan string

	changes chan *model.SessionUser
	pubsub  *goredis.PubSub

	mu      sync.Mutex
	current *model.SessionUser
}

// sessionEvent is the wire form of a session-changed broadcast.
type sessionEvent struct {
	Origin string  `json:"origin"`
	UID    *string `json:"uid"`
}

func NewAccountProvider(accounts repository.AccountRepository, rdb *redisclient.Client, cfg *config.Config) *AccountProvider {
	return &AccountProvider{
		accounts:   accounts,
		rdb:        rdb,
		secret:     cfg.SessionSecret,
		maxAge:     cfg.SessionTokenMaxAge,
		instanceID: uuid.NewString(),
		sessionKey: fmt.Sprintf("%s:identity:session", cfg.StateNamespace),
		eventsChan: fmt.Sprintf("%s:identity:events", cfg.StateNamespace),
		changes:    make(chan *model.SessionUser, 16),
	}
}

// Start restores any persisted session, begins listening for out-of-band
// session changes, and emits the initial notification. Call once at process
// start; Close tears the subscription down.
func (p *AccountProvider) Start(ctx context.Context) error {
	user, err := p.restoreSession(ctx)
	if err != nil {
		log.Printf("[Identity] Session restore failed, starting signed out: %v", err)
		user = nil
	}
	p.setCurrent(user)

	p.pubsub = p.rdb.Subscribe(ctx, p.eventsChan)
	go p.listen(ctx)

	p.emit(user)
	return nil
}

// Close tears down the session-changed subscription.
func (p *AccountProvider) Close() error {
	if p.pubsub != nil {
		return p.pubsub.Close()
	}
	return nil
}

func (p *AccountProvider) Changes() <-chan *model.SessionUser {
	return p.changes
}

// CreateAccount registers a new email/password account and signs it in.
func (p *AccountProvider) CreateAccount(ctx context.Context, email, password string) (*model.SessionUser, error) {
	exists, err := p.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		UID:            uuid.NewString(),
		Email:          email,
		PasswordHashed: string(hashed),
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	return p.establishSession(ctx, account)
}

// SignIn authenticates the account and establishes the session.
func (p *AccountProvider) SignIn(ctx context.Context, email, password string) (*model.SessionUser, error) {
	account, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHashed), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return p.establishSession(ctx, account)
}

// SignOut clears the session and notifies subscribers, local and remote.
func (p *AccountProvider) SignOut(ctx context.Context) error {
	if err := p.rdb.Del(ctx, p.sessionKey).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	p.setCurrent(nil)
	p.broadcast(ctx, nil)
	p.emit(nil)
	return nil
}

// UpdateProfile sets the display name on the signed-in account and re-emits
// the refreshed user.
func (p *AccountProvider) UpdateProfile(ctx context.Context, displayName string) error {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	if current == nil {
		return model.ErrNotSignedIn
	}

	if err := p.accounts.UpdateDisplayName(ctx, current.UID, displayName); err != nil {
		return err
	}

	updated := *current
	updated.DisplayName = displayName
	p.setCurrent(&updated)
	p.emit(&updated)
	return nil
}

// restoreSession resolves the persisted session token back to an account.
// An expired or malformed token is discarded.
func (p *AccountProvider) restoreSession(ctx context.Context) (*model.SessionUser, error) {
	token, err := p.rdb.Get(ctx, p.sessionKey).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	uid, err := parseSessionToken(p.secret, token)
	if err != nil {
		if delErr := p.rdb.Del(ctx, p.sessionKey).Err(); delErr != nil {
			log.Printf("[Identity] Failed to discard invalid session token: %v", delErr)
		}
		return nil, nil
	}

	account, err := p.accounts.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("resolve session account: %w", err)
	}
	return sessionUserFromAccount(account), nil
}

func (p *AccountProvider) establishSession(ctx context.Context, account *model.Account) (*model.SessionUser, error) {
	token, err := mintSessionToken(p.secret, account.UID, p.maxAge)
	if err != nil {
		return nil, fmt.Errorf("mint session token: %w", err)
	}
	if err := p.rdb.Set(ctx, p.sessionKey, token, 0).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	user := sessionUserFromAccount(account)
	p.setCurrent(user)
	p.broadcast(ctx, &account.UID)
	p.emit(user)
	return user, nil
}

// listen re-emits session changes made by other processes.
func (p *AccountProvider) listen(ctx context.Context) {
	for msg := range p.pubsub.Channel() {
		var event sessionEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[Identity] Dropping malformed session event: %v", err)
			continue
		}
		if event.Origin == p.instanceID {
			continue
		}

		if event.UID == nil {
			p.setCurrent(nil)
			p.emit(nil)
			continue
		}

		account, err := p.accounts.GetByUID(ctx, *event.UID)
		if err != nil {
			log.Printf("[Identity] Failed to resolve session event account: %v", err)
			continue
		}
		user := sessionUserFromAccount(account)
		p.setCurrent(user)
		p.emit(user)
	}
}

// broadcast publishes a session change for other processes. Best-effort:
// the local session is already updated.
func (p *AccountProvider) broadcast(ctx context.Context, uid *string) {
	payload, err := json.Marshal(sessionEvent{Origin: p.instanceID, UID: uid})
	if err != nil {
		log.Printf("[Identity] Failed to encode session event: %v", err)
		return
	}
	if err := p.rdb.Publish(ctx, p.eventsChan, payload).Err(); err != nil {
		log.Printf("[Identity] Failed to publish session event: %v", err)
	}
}

func (p *AccountProvider) setCurrent(user *model.SessionUser) {
	p.mu.Lock()
	p.current = user
	p.mu.Unlock()
}

func (p *AccountProvider) emit(user *model.SessionUser) {
	select {
	case p.changes <- user:
	default:
		log.Printf("[Identity] Dropping change notification: subscriber not keeping up")
	}
}

func sessionUserFromAccount(account *model.Account) *model.SessionUser {
	user := &model.SessionUser{
		UID:      account.UID,
		Email:    account.Email,
		PhotoURL: account.PhotoURL,
	}
	if account.DisplayName != nil {
		user.DisplayName = *account.DisplayName
	}
	return user
}
