package events

import "sync"

type Kind string

const (
	KindRoomsChanged Kind = "rooms_changed" // состав комнат изменился (create/join/leave/delete)
	KindMessageAdded Kind = "message_added" // новое сообщение в комнате
)

type Event struct {
	Kind   Kind
	RoomID string
}

// Bus — внутрипроцессная шина для live-подписок.
// Доставка best-effort: медленный подписчик теряет события, не блокируя
// публикующего. Подписчик с пропуском всё равно получит следующий снапшот.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe возвращает канал событий и функцию отписки.
// Отписка обязательна при закрытии экрана/соединения, иначе утечка.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default: // подписчик не успевает — событие пропускаем
		}
	}
}
