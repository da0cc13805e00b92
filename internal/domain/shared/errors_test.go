package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NewNotFoundError("Product")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAlreadyExists))
	assert.Equal(t, "Product not found", err.Error())

	wrapped := fmt.Errorf("loading: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	de, ok := AsDomainError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "NOT_FOUND", de.Code)

	_, ok = AsDomainError(errors.New("plain"))
	assert.False(t, ok)
}

func TestResult(t *testing.T) {
	ok := ResultOf(42, nil)
	assert.True(t, ok.IsOk())
	assert.Equal(t, 42, ok.OrElse(0))

	failed := ResultOf(0, ErrForbidden)
	assert.False(t, failed.IsOk())
	assert.Equal(t, -1, failed.OrElse(-1))

	doubled := MapResult(ok, func(v int) string { return fmt.Sprint(v * 2) })
	v, err := doubled.Unwrap()
	assert.NoError(t, err)
	assert.Equal(t, "84", v)

	mappedFail := MapResult(failed, func(v int) string { return "never" })
	assert.ErrorIs(t, mappedFail.Err, ErrForbidden)
}

func TestFilter(t *testing.T) {
	f := DefaultFilter()
	g := f.With("status", "pending")

	assert.Empty(t, f.Filters)
	assert.Equal(t, "pending", g.Filters["status"])

	g.Page = 3
	assert.Equal(t, 40, g.Offset())

	p := NewPaginated([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)
}

type testAggregate struct {
	BaseAggregateRoot
}

func TestPublishAndClear(t *testing.T) {
	agg := &testAggregate{BaseAggregateRoot: NewBaseAggregateRoot()}
	ev := NewBaseDomainEvent("test.happened", "Test", agg.ID, agg.ID)
	agg.AddDomainEvent(&ev)

	pub := &recordingPublisher{}
	assert.NoError(t, PublishAndClear(t.Context(), pub, agg))
	assert.Len(t, pub.events, 1)
	assert.Empty(t, agg.GetDomainEvents())

	agg.Touch()
	assert.Equal(t, 2, agg.GetVersion())
}

type recordingPublisher struct {
	events []DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func TestBaseAggregateRoot_StoredVersion(t *testing.T) {
	agg := NewBaseAggregateRoot()
	assert.True(t, agg.IsNew())

	agg.MarkPersisted()
	assert.False(t, agg.IsNew())
	assert.Equal(t, 1, agg.StoredVersion())

	agg.Touch()
	agg.Touch()
	assert.Equal(t, 3, agg.Version)
	assert.Equal(t, 1, agg.StoredVersion())
}
