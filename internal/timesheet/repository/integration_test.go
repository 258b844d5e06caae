//go:build integration

package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/domain"
	"github.com/opsdesk/opsdesk-backend/pkg/errors"
	"github.com/opsdesk/opsdesk-backend/pkg/testutil"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		log.Fatalf("failed to set up integration suite: %v", err)
	}

	if err := suite.ApplySchema(ctx, Schema); err != nil {
		log.Fatalf("failed to apply timesheet schema: %v", err)
	}

	code := m.Run()
	testutil.TerminateContainer(ctx)
	os.Exit(code)
}

func freshRepo(t *testing.T) (*EntryRepository, context.Context) {
	testutil.SkipIfShort(t)
	ctx := testutil.DefaultTestContext(t)
	suite.TruncateTables(t, ctx, "timesheet_entries", "employee_directory")
	return NewEntryRepository(suite.DB), ctx
}

// entryFromFixture converts a fixture into the domain shape the repository takes.
func entryFromFixture(f testutil.TimesheetEntryFixture) *domain.TimesheetEntry {
	return &domain.TimesheetEntry{
		EmployeeID:      f.EmployeeID,
		EmployeeName:    f.EmployeeName,
		EntryDate:       domain.DateOf(f.EntryDate),
		WorkDescription: f.WorkDescription,
		HoursWorked:     f.HoursWorked,
	}
}

func TestEntryRoundTrip(t *testing.T) {
	repo, ctx := freshRepo(t)

	entry := entryFromFixture(suite.Fixtures.TimesheetEntry(
		testutil.WithEmployee("emp-1", "Ada"),
		testutil.WithEntryDate(time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)),
		testutil.WithDescription("sprint work"),
		testutil.WithHours(7.5),
	))
	require.NoError(t, repo.Create(ctx, entry))
	require.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.EmployeeID, got.EmployeeID)
	assert.Equal(t, entry.EntryDate, got.EntryDate)
	assert.Equal(t, 7.5, got.HoursWorked)

	byDay, err := repo.GetByEmployeeAndDate(ctx, "emp-1", entry.EntryDate)
	require.NoError(t, err)
	require.NotNil(t, byDay)
	assert.Equal(t, entry.ID, byDay.ID)
}

func TestEntryUniqueIndexRejectsSecondDay(t *testing.T) {
	repo, ctx := freshRepo(t)

	first := &domain.TimesheetEntry{
		EmployeeID:      "emp-1",
		EmployeeName:    "Ada",
		EntryDate:       domain.NewDate(2024, time.March, 4),
		WorkDescription: "sprint work",
		HoursWorked:     8.0,
	}
	require.NoError(t, repo.Create(ctx, first))

	dup := &domain.TimesheetEntry{
		EmployeeID:      "emp-1",
		EmployeeName:    "Ada",
		EntryDate:       domain.NewDate(2024, time.March, 4),
		WorkDescription: "double booked",
		HoursWorked:     2.0,
	}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))

	// A different employee on the same day is fine.
	other := &domain.TimesheetEntry{
		EmployeeID:      "emp-2",
		EmployeeName:    "Zoe",
		EntryDate:       domain.NewDate(2024, time.March, 4),
		WorkDescription: "other work",
		HoursWorked:     4.0,
	}
	assert.NoError(t, repo.Create(ctx, other))
}

func TestEntrySoftDeleteFreesTheDay(t *testing.T) {
	repo, ctx := freshRepo(t)

	entry := &domain.TimesheetEntry{
		EmployeeID:      "emp-1",
		EmployeeName:    "Ada",
		EntryDate:       domain.NewDate(2024, time.March, 4),
		WorkDescription: "sprint work",
		HoursWorked:     8.0,
	}
	require.NoError(t, repo.Create(ctx, entry))
	require.NoError(t, repo.Delete(ctx, entry.ID))

	_, err := repo.GetByID(ctx, entry.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	// The partial unique index only covers live rows, so the day opens up.
	again := &domain.TimesheetEntry{
		EmployeeID:      "emp-1",
		EmployeeName:    "Ada",
		EntryDate:       domain.NewDate(2024, time.March, 4),
		WorkDescription: "second try",
		HoursWorked:     6.0,
	}
	assert.NoError(t, repo.Create(ctx, again))
}

func TestEntryUpdatePersists(t *testing.T) {
	repo, ctx := freshRepo(t)

	entry := &domain.TimesheetEntry{
		EmployeeID:      "emp-1",
		EmployeeName:    "Ada",
		EntryDate:       domain.NewDate(2024, time.March, 4),
		WorkDescription: "sprint work",
		HoursWorked:     8.0,
	}
	require.NoError(t, repo.Create(ctx, entry))

	entry.WorkDescription = "revised"
	entry.HoursWorked = 6.5
	require.NoError(t, repo.Update(ctx, entry))

	got, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised", got.WorkDescription)
	assert.Equal(t, 6.5, got.HoursWorked)
}

func TestEntryMonthListings(t *testing.T) {
	repo, ctx := freshRepo(t)

	seedEntry := func(employeeID, name string, date time.Time, hours float64) {
		t.Helper()
		fixture := suite.Fixtures.TimesheetEntry(
			testutil.WithEmployee(employeeID, name),
			testutil.WithEntryDate(date),
			testutil.WithHours(hours),
		)
		require.NoError(t, repo.Create(ctx, entryFromFixture(fixture)))
	}

	march := func(day int) time.Time {
		return time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)
	}

	seedEntry("emp-1", "Ada", march(5), 6.5)
	seedEntry("emp-1", "Ada", march(4), 8.0)
	seedEntry("emp-2", "Zoe", march(4), 4.0)
	seedEntry("emp-1", "Ada", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), 1.0)

	mine, err := repo.ListByEmployeeAndRange(ctx, "emp-1",
		domain.NewDate(2024, time.March, 1), domain.NewDate(2024, time.March, 31))
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, domain.NewDate(2024, time.March, 4), mine[0].EntryDate)
	assert.Equal(t, domain.NewDate(2024, time.March, 5), mine[1].EntryDate)

	all, err := repo.ListAllInMonth(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestEmployeeDirectoryUpsert(t *testing.T) {
	_, ctx := freshRepo(t)
	dir := NewEmployeeDirectoryRepository(suite.DB)

	fixture := suite.Fixtures.DirectoryEmployee(testutil.WithDirectoryName("Ada"))
	require.NoError(t, dir.Set(ctx, &DirectoryEmployee{
		EmployeeID: fixture.EmployeeID,
		Name:       fixture.Name,
		Email:      fixture.Email,
	}))

	got, err := dir.Get(ctx, fixture.EmployeeID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.Name)

	require.NoError(t, dir.Set(ctx, &DirectoryEmployee{
		EmployeeID: fixture.EmployeeID,
		Name:       "Ada L.",
		Email:      testutil.PtrString("ada@opsdesk.example"),
	}))
	got, err = dir.Get(ctx, fixture.EmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", got.Name)
	require.NotNil(t, got.Email)
	assert.Equal(t, "ada@opsdesk.example", *got.Email)

	require.NoError(t, dir.Delete(ctx, fixture.EmployeeID))
	got, err = dir.Get(ctx, fixture.EmployeeID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
