package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogo-cafe/api/internal/enum"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// User is an account known to the demo directory.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`

	passwordHash []byte
}

// Directory is a fixed, in-memory set of demo accounts. All accounts share
// one password, hashed at construction.
type Directory struct {
	byUsername map[string]User
	byID       map[uuid.UUID]User
	order      []uuid.UUID
}

type seedUser struct {
	id       string
	username string
	name     string
	role     string
}

var demoUsers = []seedUser{
	{"6f1c1e52-3a57-4a0e-9d1b-0c9a1d1e0001", "john", "John Doe", enum.UserRoleCustomer},
	{"6f1c1e52-3a57-4a0e-9d1b-0c9a1d1e0002", "jane", "Jane Smith", enum.UserRoleCustomer},
	{"6f1c1e52-3a57-4a0e-9d1b-0c9a1d1e0003", "alice", "Alice Johnson", enum.UserRoleCustomer},
	{"6f1c1e52-3a57-4a0e-9d1b-0c9a1d1e0004", "bob", "Bob Brown", enum.UserRoleBarista},
	{"6f1c1e52-3a57-4a0e-9d1b-0c9a1d1e0005", "charlie", "Charlie Davis", enum.UserRoleManager},
}

// NewDemoDirectory builds the demo accounts with the given shared password.
func NewDemoDirectory(password string) (*Directory, error) {
	if password == "" {
		return nil, errors.New("demo password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	d := &Directory{
		byUsername: make(map[string]User, len(demoUsers)),
		byID:       make(map[uuid.UUID]User, len(demoUsers)),
	}
	for _, s := range demoUsers {
		u := User{
			ID:           uuid.MustParse(s.id),
			Username:     s.username,
			Name:         s.name,
			Role:         s.role,
			passwordHash: hash,
		}
		d.byUsername[u.Username] = u
		d.byID[u.ID] = u
		d.order = append(d.order, u.ID)
	}
	return d, nil
}

// Authenticate checks a username and password. Unknown usernames and wrong
// passwords return the same error.
func (d *Directory) Authenticate(username, password string) (User, error) {
	u, ok := d.byUsername[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (d *Directory) User(id uuid.UUID) (User, error) {
	u, ok := d.byID[id]
	if !ok {
		return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return u, nil
}

// Customers returns the customer accounts in directory order.
func (d *Directory) Customers() []User {
	var out []User
	for _, id := range d.order {
		if u := d.byID[id]; u.Role == enum.UserRoleCustomer {
			out = append(out, u)
		}
	}
	return out
}
