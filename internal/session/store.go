package session

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type state struct {
	DisplayName   string `yaml:"display_name"`
	CurrentRoomID string `yaml:"current_room_id"`
}

// Store — маленький персистентный key-value: отображаемое имя и указатель
// на текущую комнату. Читается один раз при старте, каждая мутация
// пишется насквозь на диск. Переживает перезапуск.
type Store struct {
	mu   sync.Mutex
	path string
	st   state
}

// Open читает состояние с диска; отсутствие файла — пустое состояние.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, &s.st); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) DisplayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.DisplayName
}

func (s *Store) SetDisplayName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.DisplayName = name
	return s.save()
}

func (s *Store) CurrentRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CurrentRoomID
}

func (s *Store) SetCurrentRoom(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.CurrentRoomID = id
	return s.save()
}

func (s *Store) ClearCurrentRoom() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.CurrentRoomID = ""
	return s.save()
}

// save пишет во временный файл и переименовывает, чтобы не оставить
// полузаписанное состояние при падении.
func (s *Store) save() error {
	data, err := yaml.Marshal(s.st)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
