package domain

import "time"

type Room struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Language   string    `db:"language"`
	Level      string    `db:"level"`
	MaxMembers int       `db:"max_members"`
	Members    []Member  `db:"members"`
	Owner      string    `db:"owner"`
	CreatedAt  time.Time `db:"created_at"`
}

// HasMember — есть ли участник с таким именем.
// Имя и есть идентичность: два пользователя с одинаковым именем
// считаются одним участником, уникальность между устройствами не гарантируется.
func (r *Room) HasMember(name string) bool {
	_, ok := r.FindMember(name)
	return ok
}

func (r *Room) FindMember(name string) (Member, bool) {
	for _, m := range r.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

func (r *Room) IsFull() bool {
	return len(r.Members) >= r.MaxMembers
}
