package service

import (
	"strings"

	"github.com/atoz-servo/lobby-service/internal/domain"

	"github.com/samber/lo"
)

// FilterRooms — чистая проекция для лобби: точное совпадение языка
// ("All" или пусто — без фильтра) и подстрока без учёта регистра
// по имени и языку. Ничего не персистится.
func FilterRooms(rooms []domain.Room, language, search string) []domain.Room {
	search = strings.ToLower(strings.TrimSpace(search))

	return lo.Filter(rooms, func(r domain.Room, _ int) bool {
		if language != "" && language != "All" && r.Language != language {
			return false
		}
		if search == "" {
			return true
		}
		return strings.Contains(strings.ToLower(r.Name), search) ||
			strings.Contains(strings.ToLower(r.Language), search)
	})
}
