package services

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
)

// memStore is an in-memory CredentialStore. WithinTx works on a copy and
// swaps it in on success.
type memStore struct {
	users  []*models.User
	roles  map[string]*models.Role
	links  map[int64][]int64
	nextID int64

	failOn   map[string]error
	lookups  int
	txCalled int
}

func newMemStore() *memStore {
	return &memStore{
		roles: map[string]*models.Role{
			"Admin":  {ID: 1, Name: "Admin"},
			"Editor": {ID: 2, Name: "Editor"},
			"Viewer": {ID: 3, Name: "Viewer"},
		},
		links:  map[int64][]int64{},
		nextID: 1,
		failOn: map[string]error{},
	}
}

func (m *memStore) clone() *memStore {
	c := &memStore{
		users:  append([]*models.User(nil), m.users...),
		roles:  m.roles,
		links:  make(map[int64][]int64, len(m.links)),
		nextID: m.nextID,
		failOn: m.failOn,
	}
	for k, v := range m.links {
		c.links[k] = append([]int64(nil), v...)
	}
	return c
}

func (m *memStore) FindUserByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	m.lookups++
	if err := m.failOn["FindUserByIdentifier"]; err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.Name == identifier || u.Email == identifier {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memStore) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memStore) FindRoleByName(_ context.Context, name string) (*models.Role, error) {
	if err := m.failOn["FindRoleByName"]; err != nil {
		return nil, err
	}
	r, ok := m.roles[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r, nil
}

func (m *memStore) ListAssignableRoleNames(context.Context) ([]string, error) {
	if err := m.failOn["ListAssignableRoleNames"]; err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m.roles))
	for name := range m.roles {
		if name != common.AdminRoleName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *memStore) ListUserRoleNames(_ context.Context, userID int64) ([]string, error) {
	if err := m.failOn["ListUserRoleNames"]; err != nil {
		return nil, err
	}
	names := make([]string, 0)
	for _, roleID := range m.links[userID] {
		for _, r := range m.roles {
			if r.ID == roleID {
				names = append(names, r.Name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *memStore) InsertUser(_ context.Context, u *models.User) (int64, error) {
	if err := m.failOn["InsertUser"]; err != nil {
		return 0, err
	}
	for _, existing := range m.users {
		if existing.Name == u.Name || existing.Email == u.Email {
			return 0, common.ErrAlreadyExists
		}
	}
	cp := *u
	cp.ID = m.nextID
	m.nextID++
	m.users = append(m.users, &cp)
	return cp.ID, nil
}

func (m *memStore) InsertUserRole(_ context.Context, userID, roleID int64) error {
	if err := m.failOn["InsertUserRole"]; err != nil {
		return err
	}
	for _, id := range m.links[userID] {
		if id == roleID {
			return common.ErrAlreadyExists
		}
	}
	m.links[userID] = append(m.links[userID], roleID)
	return nil
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, s CredentialStore) error) error {
	m.txCalled++
	tx := m.clone()
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.users, m.links, m.nextID = tx.users, tx.links, tx.nextID
	return nil
}

// countingHasher wraps a Hasher under its own scheme name, counting Verify
// calls and optionally failing Hash.
type countingHasher struct {
	password.Hasher
	scheme   string
	hashErr  error
	verifies int
}

func (h *countingHasher) Scheme() string { return h.scheme }

func (h *countingHasher) Hash(plaintext string) ([]byte, []byte, error) {
	if h.hashErr != nil {
		return nil, nil, h.hashErr
	}
	return h.Hasher.Hash(plaintext)
}

func (h *countingHasher) Verify(plaintext string, hash, salt []byte) bool {
	h.verifies++
	return h.Hasher.Verify(plaintext, hash, salt)
}
