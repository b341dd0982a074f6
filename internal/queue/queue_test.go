package queue

import (
	"testing"

	. "github.com/ava12/bachcg/internal/test"
)

func TestFifoOrder(t *testing.T) {
	q := New(20, 0)
	next := 1
	var got []int
	for !q.IsEmpty() {
		item, ok := q.Pop()
		ExpectBool(t, true, ok)
		got = append(got, item)
		for j := 0; j < 2 && next < 20; j++ {
			q.Push(next)
			next++
		}
	}

	ExpectInt(t, 20, len(got))
	for i, item := range got {
		ExpectInt(t, i, item)
	}
	_, ok := q.Pop()
	ExpectBool(t, false, ok)
}

func TestPushOnce(t *testing.T) {
	q := New(4, 1, 1, 2)
	ExpectInt(t, 2, q.Len())
	ExpectBool(t, false, q.Push(2))
	ExpectBool(t, false, q.Push(-1))
	ExpectBool(t, false, q.Push(4))

	item, _ := q.Pop()
	ExpectInt(t, 1, item)
	ExpectBool(t, false, q.Push(1))
	ExpectBool(t, true, q.Seen(1))
	ExpectBool(t, false, q.Seen(3))
	ExpectBool(t, false, q.Seen(10))
}

func TestUnseen(t *testing.T) {
	q := New(6, 0)
	q.Push(3)
	q.Push(5)
	Expect(t, len(q.Unseen()) == 3, []int{1, 2, 4}, q.Unseen())
	for i, item := range []int{1, 2, 4} {
		ExpectInt(t, item, q.Unseen()[i])
	}

	ExpectInt(t, 0, len(New(0).Unseen()))
}
