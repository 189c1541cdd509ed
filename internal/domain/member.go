package domain

import "net/url"

// Member — участник комнаты, встроен в Room (отдельной сущности нет).
type Member struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Roses  int    `json:"roses"`
}

// NewMember создаёт запись участника с детерминированным аватаром.
func NewMember(name string) Member {
	return Member{
		Name:   name,
		Avatar: DeriveAvatar(name),
		Roses:  0,
	}
}

func DeriveAvatar(name string) string {
	return "https://i.pravatar.cc/150?u=" + url.QueryEscape(name)
}
