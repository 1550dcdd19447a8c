package cache

import "sync"

// ChatQueue - очередь обновлений по чатам. Обновления одного чата выполняются
// в том порядке, в котором для них взяты билеты.
type ChatQueue struct {
	mu    sync.Mutex
	tails map[int64]chan struct{}
}

// Ticket - место обновления в очереди чата
type Ticket struct {
	q      *ChatQueue
	chatID int64
	prev   <-chan struct{}
	done   chan struct{}
}

func NewChatQueue() *ChatQueue {
	return &ChatQueue{tails: make(map[int64]chan struct{})}
}

// Enqueue ставит обновление в конец очереди чата. Вызывается до запуска горутины.
func (q *ChatQueue) Enqueue(chatID int64) *Ticket {
	q.mu.Lock()
	defer q.mu.Unlock()

	t := &Ticket{
		q:      q,
		chatID: chatID,
		prev:   q.tails[chatID],
		done:   make(chan struct{}),
	}
	q.tails[chatID] = t.done
	return t
}

// Wait ждет, пока закончится обработка предыдущего обновления чата
func (t *Ticket) Wait() {
	if t.prev != nil {
		<-t.prev
	}
}

// Done пропускает следующее обновление чата
func (t *Ticket) Done() {
	t.q.mu.Lock()
	if t.q.tails[t.chatID] == t.done {
		delete(t.q.tails, t.chatID)
	}
	t.q.mu.Unlock()

	close(t.done)
}

// Len - число чатов с необработанными обновлениями
func (q *ChatQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tails)
}
