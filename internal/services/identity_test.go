package services

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMintAnonToken(t *testing.T) {
	tokenPattern := regexp.MustCompile(`^\d+-[0-9a-z]{8}$`)

	before := time.Now().UnixMilli()
	token := MintAnonToken()
	after := time.Now().UnixMilli()

	if !tokenPattern.MatchString(token) {
		t.Fatalf("Token %q does not match {ms-timestamp}-{base36 suffix}", token)
	}

	msPart := strings.SplitN(token, "-", 2)[0]
	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		t.Fatalf("Token timestamp not numeric: %v", err)
	}
	if ms < before || ms > after {
		t.Errorf("Token timestamp %d outside [%d, %d]", ms, before, after)
	}
}

func TestMintAnonTokenDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := MintAnonToken()
		if seen[token] {
			t.Fatalf("Duplicate token minted: %s", token)
		}
		seen[token] = true
	}
}

func TestNicknameAvailable(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users_info" WHERE nickname = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	available, err := NicknameAvailable("fresh_name", 0)
	if err != nil {
		t.Fatalf("NicknameAvailable failed: %v", err)
	}
	if !available {
		t.Error("Expected unused nickname to be available")
	}

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users_info" WHERE nickname = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	available, err = NicknameAvailable("taken_name", 0)
	if err != nil {
		t.Fatalf("NicknameAvailable failed: %v", err)
	}
	if available {
		t.Error("Expected used nickname to be unavailable")
	}
}

func TestNicknameAvailableExcludesOwnRow(t *testing.T) {
	mock := newMockDB(t)

	// Editing your own nickname must not report it as taken
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users_info" WHERE nickname = \$1 AND id != \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	available, err := NicknameAvailable("my_own", 42)
	if err != nil {
		t.Fatalf("NicknameAvailable failed: %v", err)
	}
	if !available {
		t.Error("Expected own nickname to stay available for its holder")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
