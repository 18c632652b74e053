package storage

import "fmt"

// MockShard returns the same mock storage for every shard.
func MockShard(m *MockStorage) Shard {
	return func(shard string) (Persistence, error) {
		return m, nil
	}
}

// MockStorage keeps the stored values in memory, or fails every call if Err is set.
type MockStorage struct {
	Elements map[Key]interface{}
	Err      error
}

func NewMockStorage() *MockStorage {
	return &MockStorage{Elements: make(map[Key]interface{})}
}

func (m *MockStorage) Store(k Key, value interface{}) error {
	if m.Err != nil {
		return fmt.Errorf("could not store '%v': %w", k, m.Err)
	}
	m.Elements[k] = value
	return nil
}

func (m *MockStorage) Load(k Key, value interface{}) error {
	if m.Err != nil {
		return fmt.Errorf("could not load '%v': %w", k, m.Err)
	}
	if _, ok := m.Elements[k]; !ok {
		return fmt.Errorf("not found '%v': %w", k, NotFoundErr)
	}
	return nil
}
