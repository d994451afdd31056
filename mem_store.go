package main

// MemoryTreeStore keeps blobs in a map. It exists so the cache contract can
// be exercised without a real on-disk database; blobs still round-trip
// through the same binary encoding as the persistent backends.
type MemoryTreeStore struct {
	blobs map[string][]byte
}

func (s *MemoryTreeStore) Initialize(path string) error {
	s.blobs = make(map[string][]byte)
	return nil
}

func (s *MemoryTreeStore) Close() error { return nil }

func (s *MemoryTreeStore) SaveTree(kind string, roots []*TagTreeNode) error {
	data, err := encodeForest(roots)
	if err != nil {
		return err
	}
	s.blobs[kind] = data
	return nil
}

func (s *MemoryTreeStore) LoadTree(kind string) []*TagTreeNode {
	data, ok := s.blobs[kind]
	if !ok {
		return nil
	}
	return decodeForest(data)
}

func (s *MemoryTreeStore) ClearTree(kind string) error {
	delete(s.blobs, kind)
	return nil
}
