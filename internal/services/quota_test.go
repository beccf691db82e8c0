package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNextQuotaDailyCap(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	max := 3

	// N calls within one day: exactly max allowed, the rest denied
	var last *time.Time
	count := 0
	allowedTotal := 0
	for i := 0; i < 10; i++ {
		next, allowed := nextQuota(last, count, max, now)
		if allowed {
			allowedTotal++
			count = next
			ts := now
			last = &ts
		}
	}
	if allowedTotal != max {
		t.Errorf("Expected %d allowed calls, got %d", max, allowedTotal)
	}
	if count != max {
		t.Errorf("Expected final count %d, got %d", max, count)
	}
}

func TestNextQuotaNewDayReset(t *testing.T) {
	yesterday := time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 0, 1, 0, 0, time.UTC)

	// Exhausted yesterday, first call just past midnight resets to 1
	next, allowed := nextQuota(&yesterday, 3, 3, today)
	if !allowed {
		t.Error("Expected new day to allow generation")
	}
	if next != 1 {
		t.Errorf("Expected count reset to 1, got %d", next)
	}

	// Same moment, no prior record at all
	next, allowed = nextQuota(nil, 0, 3, today)
	if !allowed || next != 1 {
		t.Errorf("Expected first-ever call to allow with count 1, got allowed=%v count=%d", allowed, next)
	}
}

func TestNextQuotaSameDayIncrement(t *testing.T) {
	morning := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 15, 22, 0, 0, 0, time.UTC)

	// makecount=2, maxcount=3, last generation today: one slot left
	next, allowed := nextQuota(&morning, 2, 3, evening)
	if !allowed {
		t.Error("Expected generation to be allowed at count 2 of 3")
	}
	if next != 3 {
		t.Errorf("Expected count 3, got %d", next)
	}

	// Now the day is full
	_, allowed = nextQuota(&evening, 3, 3, evening)
	if allowed {
		t.Error("Expected generation to be denied at count 3 of 3")
	}
}

func TestNextQuotaAnonymousScenario(t *testing.T) {
	day1 := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	// First ever call: allowed, count 1
	count, allowed := nextQuota(nil, 0, AnonDailyMax, day1)
	if !allowed || count != 1 {
		t.Fatalf("Expected first call allowed with count 1, got allowed=%v count=%d", allowed, count)
	}

	// Second call same day: denied at the anonymous cap of 1
	_, allowed = nextQuota(&day1, count, AnonDailyMax, day1.Add(time.Hour))
	if allowed {
		t.Error("Expected second same-day anonymous call to be denied")
	}

	// Following calendar day: allowed again, count back to 1
	count, allowed = nextQuota(&day1, 1, AnonDailyMax, day2)
	if !allowed || count != 1 {
		t.Errorf("Expected next-day call allowed with count 1, got allowed=%v count=%d", allowed, count)
	}
}

func TestAuthorizeGenerationClaimsSlot(t *testing.T) {
	mock := newMockDB(t)

	// One conditional UPDATE: the WHERE refuses a full row, the CASE picks
	// increment vs new-day reset
	mock.ExpectExec(`UPDATE "users_info" SET .*CASE WHEN lastmake_at >= \$[0-9]+ THEN makecount \+ 1 ELSE 1 END.*WHERE id = \$[0-9]+ AND \(lastmake_at IS NULL OR lastmake_at < \$[0-9]+ OR makecount < maxcount\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := AuthorizeGeneration(profileActor(42)); err != nil {
		t.Fatalf("Expected slot to be granted: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestAuthorizeGenerationDenied(t *testing.T) {
	mock := newMockDB(t)

	// Zero rows touched means the quota predicate refused the row
	mock.ExpectExec(`UPDATE "users_info" SET .*WHERE id = \$[0-9]+ AND \(lastmake_at IS NULL OR lastmake_at < \$[0-9]+ OR makecount < maxcount\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := AuthorizeGeneration(profileActor(42)); !errors.Is(err, ErrDailyLimit) {
		t.Fatalf("Expected ErrDailyLimit, got %v", err)
	}
}

func TestAuthorizeGenerationAnonymous(t *testing.T) {
	mock := newMockDB(t)
	token := "1700000000000-abcd1234"

	// Lazy registration first, then the same conditional UPDATE against the
	// literal anonymous cap
	mock.ExpectQuery(`SELECT \* FROM "temp_info" WHERE token = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"token", "makecount"}).AddRow(token, 1))
	mock.ExpectExec(`UPDATE "temp_info" SET .*CASE WHEN lastmake_at >= \$[0-9]+ THEN makecount \+ 1 ELSE 1 END.*WHERE token = \$[0-9]+ AND \(lastmake_at IS NULL OR lastmake_at < \$[0-9]+ OR makecount < \$[0-9]+\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := AuthorizeGeneration(Actor{AnonToken: token}); !errors.Is(err, ErrDailyLimit) {
		t.Fatalf("Expected ErrDailyLimit at the anonymous cap, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestStartOfUTCDay(t *testing.T) {
	// A local-zone timestamp must land on the UTC date, not the local one
	kst := time.FixedZone("KST", 9*3600)
	late := time.Date(2025, 6, 15, 3, 0, 0, 0, kst) // 2025-06-14 18:00 UTC

	got := startOfUTCDay(late)
	want := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
