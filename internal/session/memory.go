package session

// MemoryStore is an in-process Store used by tests and one-shot commands
// that receive the token on the command line.
type MemoryStore struct {
	token string
}

// NewMemoryStore returns a MemoryStore seeded with token (may be empty).
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Get() (string, bool) { return s.token, s.token != "" }

func (s *MemoryStore) Set(token string) error {
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	s.token = ""
	return nil
}

var _ Store = (*MemoryStore)(nil)
