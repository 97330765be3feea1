package cache

// lruList is an intrusive doubly linked list ordering keys from most to
// least recently used. Not safe for concurrent use; the owning shard's
// lock covers it.
type lruList[K any] struct {
	head *lruNode[K]
	tail *lruNode[K]
	len  int
}

type lruNode[K any] struct {
	key  K
	prev *lruNode[K]
	next *lruNode[K]
}

func (l *lruList[K]) pushFront(key K) *lruNode[K] {
	n := &lruNode[K]{key: key, next: l.head}
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.len++
	return n
}

func (l *lruList[K]) moveToFront(n *lruNode[K]) {
	if n == l.head {
		return
	}
	l.unlink(n)
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.len++
}

// removeOldest unlinks and returns the least recently used key.
func (l *lruList[K]) removeOldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	n := l.tail
	l.unlink(n)
	return n.key, true
}

func (l *lruList[K]) remove(n *lruNode[K]) { l.unlink(n) }

func (l *lruList[K]) unlink(n *lruNode[K]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else if l.head == n {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else if l.tail == n {
		l.tail = n.prev
	}
	n.prev = nil
	n.next = nil
	l.len--
}
