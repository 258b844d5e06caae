package consumers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/repository"
	"github.com/opsdesk/opsdesk-backend/pkg/logger"
	"github.com/opsdesk/opsdesk-backend/pkg/messaging"
)

type fakeDirectory struct {
	records map[string]*repository.DirectoryEmployee
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{records: make(map[string]*repository.DirectoryEmployee)}
}

func (f *fakeDirectory) Set(ctx context.Context, emp *repository.DirectoryEmployee) error {
	f.records[emp.EmployeeID] = emp
	return nil
}

func (f *fakeDirectory) Delete(ctx context.Context, employeeID string) error {
	delete(f.records, employeeID)
	return nil
}

func mustEvent(t *testing.T, eventType string, data interface{}) *messaging.Event {
	t.Helper()
	event, err := messaging.NewEvent(eventType, "identity-service", "corr-1", data)
	require.NoError(t, err)
	return event
}

func TestEmployeeConsumerUpsert(t *testing.T) {
	dir := newFakeDirectory()
	consumer := NewEmployeeConsumer(dir, logger.New("timesheet-service", "test"))

	email := "ada@opsdesk.example"
	event := mustEvent(t, messaging.EventEmployeeCreated, messaging.EmployeeCreatedEvent{
		EmployeeID: "emp-1",
		Name:       "Ada",
		Email:      &email,
	})

	require.NoError(t, consumer.handleEmployeeUpserted(context.Background(), event))

	record := dir.records["emp-1"]
	require.NotNil(t, record)
	assert.Equal(t, "Ada", record.Name)
	require.NotNil(t, record.Email)
	assert.Equal(t, email, *record.Email)

	// An update overwrites the existing record.
	event = mustEvent(t, messaging.EventEmployeeUpdated, messaging.EmployeeUpdatedEvent{
		EmployeeID: "emp-1",
		Name:       "Ada L.",
	})
	require.NoError(t, consumer.handleEmployeeUpserted(context.Background(), event))
	assert.Equal(t, "Ada L.", dir.records["emp-1"].Name)
}

func TestEmployeeConsumerUpsertMissingID(t *testing.T) {
	dir := newFakeDirectory()
	consumer := NewEmployeeConsumer(dir, logger.New("timesheet-service", "test"))

	event := mustEvent(t, messaging.EventEmployeeCreated, messaging.EmployeeCreatedEvent{Name: "nobody"})

	err := consumer.handleEmployeeUpserted(context.Background(), event)
	assert.Error(t, err)
	assert.Empty(t, dir.records)
}

func TestEmployeeConsumerDelete(t *testing.T) {
	dir := newFakeDirectory()
	dir.records["emp-1"] = &repository.DirectoryEmployee{EmployeeID: "emp-1", Name: "Ada"}
	consumer := NewEmployeeConsumer(dir, logger.New("timesheet-service", "test"))

	event := mustEvent(t, messaging.EventEmployeeDeleted, messaging.EmployeeDeletedEvent{EmployeeID: "emp-1"})

	require.NoError(t, consumer.handleEmployeeDeleted(context.Background(), event))
	assert.Empty(t, dir.records)
}
