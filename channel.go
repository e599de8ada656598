package chanx

// Channel is the operation set shared by Chan and UnbufChan.
//
// Blocking operations (Send, Recv, RecvTo) park until they complete or the
// channel is closed; they never return ErrWouldBlock. Non-blocking operations
// (TrySend, TryRecv, TryRecvTo) return ErrWouldBlock instead of parking.
// Every operation returns ErrClosed once Close has been observed.
type Channel[T any] interface {
	Send(v T) error
	TrySend(v T) error
	Recv() (T, error)
	TryRecv() (T, error)
	RecvTo(dst *T) error
	TryRecvTo(dst *T) error
	Close()
	Closed() bool
	Cap() int
}

var (
	_ Channel[int] = (*Chan[int])(nil)
	_ Channel[int] = (*UnbufChan[int])(nil)
)

// Make creates a channel of the given capacity: a rendezvous UnbufChan when
// capacity is 0, a buffered Chan otherwise. Options only apply to buffered
// channels.
func Make[T any](capacity int, options ...func(*ChanConfig[T])) (Channel[T], error) {
	if capacity == 0 {
		return NewUnbufChan[T](), nil
	}
	ch, err := NewChan[T](capacity, options...)
	if err != nil {
		return nil, err
	}
	return ch, nil
}
