package employee

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/morezero/employee-service/pkg/events"
	"github.com/morezero/employee-service/pkg/mediator"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleEmployee() Employee {
	return Employee{
		ID:        1,
		FirstName: "John",
		LastName:  "Doe",
		Gender:    "Male",
		BirthDate: date(1985, 3, 14),
		HireDate:  date(2010, 9, 1),
	}
}

// countingStore records how often storage is reached.
type countingStore struct {
	Store
	calls atomic.Int32
}

func (c *countingStore) GetAll(ctx context.Context) ([]Employee, error) {
	c.calls.Add(1)
	return c.Store.GetAll(ctx)
}

func (c *countingStore) GetByID(ctx context.Context, id int) (*Employee, error) {
	c.calls.Add(1)
	return c.Store.GetByID(ctx, id)
}

func (c *countingStore) Add(ctx context.Context, e *Employee) error {
	c.calls.Add(1)
	return c.Store.Add(ctx, e)
}

func (c *countingStore) Update(ctx context.Context, e *Employee) (bool, error) {
	c.calls.Add(1)
	return c.Store.Update(ctx, e)
}

func (c *countingStore) PatchFields(ctx context.Context, id int, fields PatchFields) (bool, error) {
	c.calls.Add(1)
	return c.Store.PatchFields(ctx, id, fields)
}

type fixture struct {
	store     *countingStore
	mem       *MemStore
	publisher *events.RecordingPublisher
	mediator  *mediator.Mediator
}

func newFixture(seed ...Employee) *fixture {
	mem := NewMemStore(seed...)
	store := &countingStore{Store: mem}
	pub := &events.RecordingPublisher{}
	m := mediator.New()
	Register(m, NewService(store, pub), fixedClock)
	return &fixture{store: store, mem: mem, publisher: pub, mediator: m}
}

func (f *fixture) stored(id int) Employee {
	e, _ := f.mem.GetByID(context.Background(), id)
	if e == nil {
		return Employee{}
	}
	return *e
}
