package repository

// Option customizes a MemoryStore during construction.
type Option func(*MemoryStore) error

// WithSnapshot seeds the store from an already parsed snapshot.
func WithSnapshot(snap *Snapshot) Option {
	return func(m *MemoryStore) error {
		return m.Load(snap)
	}
}

// WithSnapshotFile reads and loads a snapshot file.
func WithSnapshotFile(path string) Option {
	return func(m *MemoryStore) error {
		snap, err := ReadSnapshot(path)
		if err != nil {
			return err
		}
		return m.Load(snap)
	}
}
