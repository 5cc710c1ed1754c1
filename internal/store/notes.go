package store

import (
	"slices"

	"shopdesk/internal/models"
)

// AddNote stores a note in front of the existing ones.
func (s *Store) AddNote(title, content string) models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := models.Note{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		CreatedAt: s.timestamp(),
	}
	s.notes = slices.Insert(s.notes, 0, n)

	s.log.WithField("noteId", n.ID).Info("note added")
	s.commit(SliceNotes)
	return n
}

func (s *Store) DeleteNote(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.notes)
	s.notes = slices.DeleteFunc(s.notes, func(n models.Note) bool { return n.ID == id })
	if len(s.notes) == before {
		return false
	}

	s.log.WithField("noteId", id).Info("note deleted")
	s.commit(SliceNotes)
	return true
}

// Notes lists notes newest first.
func (s *Store) Notes() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes)
}
